package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"todoctl/internal/exitcode"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd renames a task.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's title" }
func (c *EditCmd) Usage() string     { return "todoctl edit <ref> <title...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, ok := parseRef(env, args)
	if !ok {
		return exitcode.UserError
	}
	if len(args) < 2 {
		fmt.Fprintln(env.ErrOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args[1:], " ")

	ctrl := env.Controller()
	task, code, ok := loadAndResolve(ctx, env, ctrl, ref)
	if !ok {
		return code
	}

	ctrl.BeginEdit(task)
	ctrl.SetEditText(title)
	if err := ctrl.SaveEdit(ctx); err != nil {
		return failureCode(env.ErrOut, err)
	}

	printOK(env)
	return exitcode.Success
}
