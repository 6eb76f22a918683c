// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service is the remote task store the client reconciles against.
// All HTTP calls go through this interface.
// Views and commands never talk to the transport directly.
type Service interface {
	// ListTasks returns the full collection in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its store-assigned ID.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask replaces a task by ID and returns the stored value.
	UpdateTask(ctx context.Context, t Task) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id ID) error
}
