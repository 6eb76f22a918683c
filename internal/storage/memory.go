package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"todoctl/internal/service"
)

// MemoryRepository holds tasks in process memory. IDs are random UUIDs.
type MemoryRepository struct {
	mu    sync.Mutex
	order []service.ID
	items map[service.ID]service.Task
	newID func() string
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[service.ID]service.Task),
		newID: uuid.NewString,
	}
}

func (r *MemoryRepository) List(ctx context.Context) ([]service.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]service.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.items[id])
	}
	return tasks, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id service.ID) (service.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepository) Create(ctx context.Context, nt service.NewTask) (service.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := service.Task{
		ID:        service.ID(r.newID()),
		Title:     nt.Title,
		Completed: nt.Completed,
	}
	r.items[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemoryRepository) Update(ctx context.Context, t service.Task) (service.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[t.ID]; !ok {
		return service.Task{}, ErrNotFound
	}
	r.items[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id service.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) Close() error { return nil }
