package task

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-process Store. It backs tests and the memory:// store URI.
type MemStore struct {
	mu    sync.RWMutex
	tasks map[string]memEntry
	seq   uint64
	now   func() time.Time
}

type memEntry struct {
	task Task
	seq  uint64
}

// MemOption configures a MemStore.
type MemOption func(*MemStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemOption {
	return func(s *MemStore) {
		s.now = now
	}
}

// NewMemStore creates an empty MemStore.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		tasks: make(map[string]memEntry),
		now:   now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) EnsureTable(_ context.Context) error { return nil }
func (s *MemStore) Ping(_ context.Context) error        { return nil }
func (s *MemStore) Close()                              {}

// Create inserts a new task.
func (s *MemStore) Create(_ context.Context, title, description string) (*Task, error) {
	t := Task{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       strings.TrimSpace(title),
		Description: description,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.seq++
	s.tasks[t.ID] = memEntry{task: t, seq: s.seq}
	return &t, nil
}

// List returns all tasks, newest first.
func (s *MemStore) List(_ context.Context) ([]Task, error) {
	s.mu.RLock()
	entries := make([]memEntry, 0, len(s.tasks))
	for _, e := range s.tasks {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := make([]Task, len(entries))
	for i := range entries {
		tasks[i] = entries[i].task
	}
	return tasks, nil
}

// Get returns a single task.
func (s *MemStore) Get(_ context.Context, id string) (*Task, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := e.task
	return &t, nil
}

// Save overwrites the mutable fields of an existing task.
func (s *MemStore) Save(_ context.Context, t *Task) (*Task, error) {
	id, err := canonicalID(t.ID)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.task.Title = t.Title
	e.task.Description = t.Description
	e.task.Completed = t.Completed
	e.task.UpdatedAt = s.now()
	s.tasks[id] = e

	saved := e.task
	return &saved, nil
}

// Delete removes a task.
func (s *MemStore) Delete(_ context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// canonicalID parses id in any form uuid.Parse accepts and returns the
// lowercase hyphenated form the stores key on.
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}
