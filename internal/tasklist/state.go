package tasklist

import "todoctl/internal/service"

// EditSession is the single open title edit: the task as it was when the
// edit began and the uncommitted buffer.
type EditSession struct {
	ID     service.ID
	Task   service.Task
	Buffer string
}

// State is the controller's view state. Values returned by Snapshot are
// copies and safe to keep.
type State struct {
	Tasks   []service.Task
	Loading bool
	Input   string
	Edit    *EditSession
}

// Editing reports whether task id has the open edit session.
func (s State) Editing(id service.ID) bool {
	return s.Edit != nil && s.Edit.ID == id
}

func (s State) clone() State {
	out := s
	out.Tasks = make([]service.Task, len(s.Tasks))
	copy(out.Tasks, s.Tasks)
	if s.Edit != nil {
		e := *s.Edit
		out.Edit = &e
	}
	return out
}

func indexOf(tasks []service.Task, id service.ID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first task for each ID, preserving order.
func dedupe(tasks []service.Task) ([]service.Task, int) {
	seen := make(map[service.ID]struct{}, len(tasks))
	out := make([]service.Task, 0, len(tasks))
	dropped := 0
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			dropped++
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, dropped
}
