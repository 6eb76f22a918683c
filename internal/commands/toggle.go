package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
	"todoctl/internal/output"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd flips a task between open and completed.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed, or open again" }
func (c *ToggleCmd) Usage() string     { return "todoctl toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, ok := parseRef(env, args)
	if !ok {
		return exitcode.UserError
	}

	ctrl := env.Controller()
	task, code, ok := loadAndResolve(ctx, env, ctrl, ref)
	if !ok {
		return code
	}

	if err := ctrl.ToggleCompletion(ctx, task); err != nil {
		return failureCode(env.ErrOut, err)
	}

	if !env.Config.Quiet {
		stored, _ := ctrl.Task(task.ID)
		fmt.Fprintf(env.Out, "%s  %s\n", output.Mark(stored), output.NormalizeTitle(stored.Title))
	}
	return exitcode.Success
}
