// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"todoctl/internal/config"
	"todoctl/internal/notify"
	"todoctl/internal/service"
	"todoctl/internal/tasklist"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command talks to the task store.
	// Commands like help and version return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is what the dispatcher hands to a command.
type Env struct {
	// Config is always provided.
	Config *config.Config

	// Service is nil if NeedsStore() returns false.
	Service service.Service

	Logger *zap.Logger
	Out    io.Writer
	ErrOut io.Writer
}

// Controller builds a task list controller whose notifications are printed
// to ErrOut and logged.
func (e *Env) Controller() *tasklist.Controller {
	return tasklist.New(e.Service, notify.Multi{
		notify.NewWriter(e.ErrOut, e.Config.Quiet),
		notify.NewLog(e.logger()),
	}, e.logger())
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
