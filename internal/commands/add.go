package commands

import (
	"context"
	"flag"
	"strings"

	"todoctl/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todoctl add <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	title := strings.Join(args, " ")

	ctrl := env.Controller()
	ctrl.SetInput(title)
	if err := ctrl.Create(ctx, title); err != nil {
		return failureCode(env.ErrOut, err)
	}

	printOK(env)
	return exitcode.Success
}
