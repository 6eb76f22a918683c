package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
	"todoctl/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todoctl` (no args) and `todoctl list`.
type ListCmd struct {
	showIDs  bool
	openOnly bool
}

// SetShowIDs sets the --ids flag (for testing).
func (c *ListCmd) SetShowIDs(v bool) {
	c.showIDs = v
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todoctl list [--ids] [--open]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.showIDs, "ids", false, "")
	fs.BoolVar(&c.openOnly, "open", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctrl := env.Controller()
	if err := ctrl.Load(ctx); err != nil {
		return failureCode(env.ErrOut, err)
	}

	// Numbers follow the full list so they stay valid for rm, toggle and edit.
	printed := 0
	for i, task := range ctrl.Tasks() {
		if c.openOnly && task.Completed {
			continue
		}
		if c.showIDs {
			output.FormatTaskWithID(env.Out, i+1, task)
		} else {
			output.FormatTask(env.Out, i+1, task)
		}
		printed++
	}

	if printed == 0 && !env.Config.Quiet {
		fmt.Fprintln(env.Out, "no tasks found")
	}
	return exitcode.Success
}
