// Package tasklist holds the in-memory task list and reconciles it with the
// remote task store.
//
// Every operation may be called from its own goroutine. Store calls run
// without holding the state lock; completions are applied one at a time,
// so the last response to arrive wins. Nothing is mutated before the store
// confirms, and failures are reported through the Notifier.
package tasklist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"todoctl/internal/notify"
	"todoctl/internal/service"
)

const tracerName = "todoctl/internal/tasklist"

// Controller owns the task list state.
type Controller struct {
	svc      service.Service
	notifier notify.Notifier
	logger   *zap.Logger
	tracer   trace.Tracer

	mu    sync.Mutex
	state State
	loads int
}

// New creates a Controller with an empty list.
func New(svc service.Service, notifier notify.Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		svc:      svc,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Tasks returns a copy of the in-memory list.
func (c *Controller) Tasks() []service.Task {
	return c.Snapshot().Tasks
}

// Task looks up an in-memory task by ID.
func (c *Controller) Task(id service.ID) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.state.Tasks, id); i >= 0 {
		return c.state.Tasks[i], true
	}
	return service.Task{}, false
}

// SetInput replaces the new-task input text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Input = text
}

// Load fetches the full collection and replaces the list with it.
func (c *Controller) Load(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "tasklist.Load")
	defer span.End()

	c.mu.Lock()
	c.loads++
	c.state.Loading = true
	c.mu.Unlock()

	tasks, err := c.svc.ListTasks(ctx)

	c.mu.Lock()
	c.loads--
	c.state.Loading = c.loads > 0
	if err == nil {
		var dropped int
		c.state.Tasks, dropped = dedupe(tasks)
		if dropped > 0 {
			c.logger.Warn("store returned duplicate task ids", zap.Int("dropped", dropped))
		}
	}
	c.mu.Unlock()

	if err != nil {
		return c.fail(span, "load", MsgLoadFailed, err)
	}
	span.SetAttributes(attribute.Int("tasks", len(tasks)))
	c.logger.Debug("tasks loaded", zap.Int("count", len(tasks)))
	return nil
}

// Create validates title and asks the store to create an open task with it.
// On success the returned task is appended and the input field cleared.
func (c *Controller) Create(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		c.notifier.Notify(notify.Warning, MsgTitleRequired)
		return ErrTitleRequired
	}

	ctx, span := c.tracer.Start(ctx, "tasklist.Create")
	defer span.End()

	created, err := c.svc.CreateTask(ctx, service.NewTask{Title: title, Completed: false})
	if err != nil {
		return c.fail(span, "create", MsgCreateFailed, err)
	}

	c.mu.Lock()
	if i := indexOf(c.state.Tasks, created.ID); i >= 0 {
		// A concurrent Load already picked it up.
		c.state.Tasks[i] = created
	} else {
		c.state.Tasks = append(c.state.Tasks, created)
	}
	c.state.Input = ""
	c.mu.Unlock()

	span.SetAttributes(attribute.String("task.id", created.ID.String()))
	c.logger.Debug("task created", zap.String("id", created.ID.String()))
	return nil
}

// Delete removes a task from the store, then from the list.
func (c *Controller) Delete(ctx context.Context, id service.ID) error {
	ctx, span := c.tracer.Start(ctx, "tasklist.Delete",
		trace.WithAttributes(attribute.String("task.id", id.String())))
	defer span.End()

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		return c.fail(span, "delete", MsgDeleteFailed, err)
	}

	c.mu.Lock()
	if i := indexOf(c.state.Tasks, id); i >= 0 {
		c.state.Tasks = append(c.state.Tasks[:i:i], c.state.Tasks[i+1:]...)
	}
	c.mu.Unlock()

	c.logger.Debug("task deleted", zap.String("id", id.String()))
	return nil
}

// ToggleCompletion sends task with its completion flipped and stores the
// accepted value.
func (c *Controller) ToggleCompletion(ctx context.Context, task service.Task) error {
	ctx, span := c.tracer.Start(ctx, "tasklist.ToggleCompletion",
		trace.WithAttributes(attribute.String("task.id", task.ID.String())))
	defer span.End()

	updated := task
	updated.Completed = !task.Completed

	stored, err := c.svc.UpdateTask(ctx, updated)
	if err != nil {
		return c.fail(span, "toggle", MsgUpdateFailed, err)
	}

	c.replace(stored)
	return nil
}

// BeginEdit opens an edit session on task, discarding any other session.
func (c *Controller) BeginEdit(task service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Edit = &EditSession{ID: task.ID, Task: task, Buffer: task.Title}
}

// SetEditText replaces the edit buffer. It does nothing without a session.
func (c *Controller) SetEditText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Edit != nil {
		c.state.Edit.Buffer = text
	}
}

// CancelEdit closes the edit session without contacting the store.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Edit = nil
}

// SaveEdit sends the task captured by BeginEdit with the buffer as its
// title. The buffer is sent as is, empty or not. The session stays open on
// failure so the caller can retry or cancel.
func (c *Controller) SaveEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Edit == nil {
		c.mu.Unlock()
		return nil
	}
	session := *c.state.Edit
	c.mu.Unlock()

	updated := session.Task
	updated.Title = session.Buffer

	ctx, span := c.tracer.Start(ctx, "tasklist.SaveEdit",
		trace.WithAttributes(attribute.String("task.id", session.ID.String())))
	defer span.End()

	stored, err := c.svc.UpdateTask(ctx, updated)
	if err != nil {
		return c.fail(span, "save edit", MsgUpdateFailed, err)
	}

	c.mu.Lock()
	if i := indexOf(c.state.Tasks, stored.ID); i >= 0 {
		c.state.Tasks[i] = stored
	}
	// A newer BeginEdit on another task keeps its own session.
	if c.state.Edit != nil && c.state.Edit.ID == session.ID {
		c.state.Edit = nil
	}
	c.mu.Unlock()
	return nil
}

// replace swaps the in-memory task with the same ID, if still present.
func (c *Controller) replace(task service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.state.Tasks, task.ID); i >= 0 {
		c.state.Tasks[i] = task
	}
}

func (c *Controller) fail(span trace.Span, op, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	c.logger.Warn("task store request failed", zap.String("op", op), zap.Error(err))
	c.notifier.Notify(notify.Error, msg)
	return fmt.Errorf("%s: %w", op, err)
}
