package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store is the contract for task persistence.
type Store interface {
	// Create inserts a new task. The store assigns ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, title, description string) (*Task, error)
	// List returns every task, newest CreatedAt first. Ties keep the later insert first.
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	// Save persists title, description and completed of an existing task.
	// CreatedAt is never rewritten.
	Save(ctx context.Context, t *Task) (*Task, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	EnsureTable(ctx context.Context) error
	Close()
}

var (
	// ErrNotFound is returned when a well-formed id does not resolve to a task.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidID is returned when an id is not in the store's identifier format.
	ErrInvalidID = errors.New("invalid task id")
)

// ValidationError reports a payload or record that fails task constraints.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NormalizeTitle trims title and rejects it when nothing is left.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "title", Reason: "title is required"}
	}
	return trimmed, nil
}

// Validate checks the invariants a persisted task must hold.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	return nil
}

// Patch is the subset of mutable fields carried by an update. A nil field is left
// untouched; a non-nil field overwrites even when it holds "" or false.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply copies the present fields of p onto t. Titles are trimmed.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Counts are the summary figures derived from a task list.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Count derives total, completed and pending from tasks.
func Count(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
