package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todoctl help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todoctl                                     List all tasks
  todoctl list [common flags] [--ids] [--open]
  todoctl add [common flags] <title...>
  todoctl create [common flags] <title...>
  todoctl toggle [common flags] <ref>         Mark completed, or open again
  todoctl done [common flags] <ref>
  todoctl edit [common flags] <ref> <title...>
  todoctl rm [common flags] <ref>
  todoctl export [common flags] [--format json|csv|pdf] [--output <file>] [--title <text>]
  todoctl ui [common flags]                   Interactive view
  todoctl help
  todoctl version

Task references:
  <n>              Position as printed by todoctl list
  @<id>            Task ID in the store (see list --ids)

Common flags:
  --config <dir>        Override config directory
  --endpoint <url>      Task collection URL (default http://localhost:3000/todos)
  --timeout <duration>  Per-request timeout, e.g. 5s
  --trace               Print OpenTelemetry spans to stderr
  --quiet               Suppress informational output
  --debug               Print debug logs to stderr
`
