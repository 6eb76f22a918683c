// Package storage keeps the tasks served by the development store.
package storage

import (
	"context"
	"errors"

	"todoctl/internal/service"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("task not found")

// Repository persists tasks in creation order.
type Repository interface {
	List(ctx context.Context) ([]service.Task, error)
	Get(ctx context.Context, id service.ID) (service.Task, error)
	Create(ctx context.Context, t service.NewTask) (service.Task, error)

	// Update overwrites title and completion of the task with t.ID.
	Update(ctx context.Context, t service.Task) (service.Task, error)

	Delete(ctx context.Context, id service.ID) error
	Close() error
}
