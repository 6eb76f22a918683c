package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/tasklist"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todoctl rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, ok := parseRef(env, args)
	if !ok {
		return exitcode.UserError
	}

	ctrl := env.Controller()
	task, code, ok := loadAndResolve(ctx, env, ctrl, ref)
	if !ok {
		return code
	}

	if err := ctrl.Delete(ctx, task.ID); err != nil {
		return failureCode(env.ErrOut, err)
	}

	printOK(env)
	return exitcode.Success
}

// loadAndResolve loads the list and finds the referenced task in it.
func loadAndResolve(ctx context.Context, env *Env, ctrl *tasklist.Controller, ref TaskRef) (service.Task, int, bool) {
	if err := ctrl.Load(ctx); err != nil {
		return service.Task{}, failureCode(env.ErrOut, err), false
	}

	task, err := ref.Resolve(ctrl.Tasks())
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	return task, exitcode.Success, true
}
