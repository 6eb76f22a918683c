package tasklist

import "errors"

var (
	// ErrTitleRequired is returned when a title is empty after trimming.
	ErrTitleRequired = errors.New("task title is required")
)

// Notification texts. Store failures collapse to one text per operation kind.
const (
	MsgLoadFailed    = "could not load tasks"
	MsgTitleRequired = "task title is required"
	MsgCreateFailed  = "could not add task"
	MsgDeleteFailed  = "could not delete task"
	MsgUpdateFailed  = "could not update task"
)
