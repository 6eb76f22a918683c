package service

import "errors"

var (
	// ErrNotFound is returned when the store has no task with the given ID.
	ErrNotFound = errors.New("task not found")

	// ErrRejected is returned when the store refuses a request body.
	ErrRejected = errors.New("request rejected by store")
)
