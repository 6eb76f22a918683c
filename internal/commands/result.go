package commands

import (
	"errors"
	"fmt"
	"io"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/tasklist"
)

// failureCode reports a failed controller operation and picks the exit code.
// The controller has already printed the user-facing notification, so only
// the underlying cause is added here.
func failureCode(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, tasklist.ErrTitleRequired):
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrRejected):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// printOK prints the success marker unless quiet.
func printOK(env *Env) {
	if !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
}

// parseRef parses the reference in args, printing the error.
func parseRef(env *Env, args []string) (TaskRef, bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return TaskRef{}, false
	}
	return ref, true
}
