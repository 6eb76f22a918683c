// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty title, unknown task).
	UserError = 1

	// ConfigError indicates an unusable configuration (bad endpoint, bad config file).
	ConfigError = 2

	// BackendError indicates a task store or network error.
	BackendError = 3
)
