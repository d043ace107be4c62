package task

import (
	"context"
	"strings"
	"sync"

	"tasklist/internal/jsonlog"
	"tasklist/internal/model"
)

// Persister is the durable side of the store. Save is best-effort: it
// reports nothing back, and the in-memory collection stays authoritative.
type Persister interface {
	Load(ctx context.Context) []model.Task
	Save(ctx context.Context, tasks []model.Task)
}

// Store owns the ordered task collection. Every successful mutation writes
// the whole collection through the Persister.
type Store struct {
	mu     sync.RWMutex
	tasks  []model.Task
	p      Persister
	logger *jsonlog.Logger
}

func NewStore(p Persister, logger *jsonlog.Logger) *Store {
	if logger == nil {
		logger = jsonlog.Discard()
	}
	return &Store{
		tasks:  []model.Task{},
		p:      p,
		logger: logger,
	}
}

// Load replaces the in-memory collection with whatever the persister holds.
// Records that would break the store invariants are dropped.
func (s *Store) Load(ctx context.Context) {
	var loaded []model.Task
	if s.p != nil {
		loaded = s.p.Load(ctx)
	}

	clean := make([]model.Task, 0, len(loaded))
	seen := make(map[model.TaskID]bool, len(loaded))
	for _, t := range loaded {
		text := strings.TrimSpace(t.Text)
		switch {
		case t.ID == "" || seen[t.ID]:
			s.logger.Warn("task_dropped_on_load", map[string]any{"id": t.ID, "reason": "missing or duplicate id"})
			continue
		case text == "":
			s.logger.Warn("task_dropped_on_load", map[string]any{"id": t.ID, "reason": "empty text"})
			continue
		}
		seen[t.ID] = true
		t.Text = text
		clean = append(clean, t)
	}

	s.mu.Lock()
	s.tasks = clean
	s.mu.Unlock()
}

func (s *Store) List() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneTasks(s.tasks)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) Get(id model.TaskID) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Add(ctx context.Context, text string) (model.Task, error) {
	t, err := NewTask(text)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Ids are unique within the collection.
	for s.indexLocked(t.ID) >= 0 {
		t.ID = NewID()
	}
	s.tasks = append(s.tasks, t)
	s.saveLocked(ctx)
	return t, nil
}

func (s *Store) Toggle(ctx context.Context, id model.TaskID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.saveLocked(ctx)
	return s.tasks[i], true
}

// Edit replaces the text of a task. Validation runs before the lookup, so
// an empty text is reported even for an unknown id.
func (s *Store) Edit(ctx context.Context, id model.TaskID, text string) (model.Task, bool, error) {
	trimmed, err := ValidateText(text)
	if err != nil {
		return model.Task{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	s.tasks[i].Text = trimmed
	s.saveLocked(ctx)
	return s.tasks[i], true, nil
}

func (s *Store) Delete(ctx context.Context, id model.TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.saveLocked(ctx)
	return true
}

func (s *Store) indexLocked(id model.TaskID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) {
	if s.p == nil {
		return
	}
	s.p.Save(ctx, model.CloneTasks(s.tasks))
}
