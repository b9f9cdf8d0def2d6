package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"taskboard/internal/logging"
	"taskboard/pkg/task"
)

// ErrEmptyTitle is returned by Create when the draft title is blank. No request is sent.
var ErrEmptyTitle = errors.New("title is required")

// ErrDeclined is returned by Delete when the confirmation prompt is refused.
var ErrDeclined = errors.New("delete declined")

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// DeletePrompt is the question asked before a delete.
const DeletePrompt = "¿Estás seguro de eliminar esta tarea?"

// Session owns a State and keeps it in step with the server. Its methods are safe
// to call from multiple goroutines; network calls run outside the lock.
type Session struct {
	api     *Client
	confirm ConfirmFunc
	logger  *log.Logger

	mu    sync.Mutex
	state State
	// onChange is called after every state transition.
	onChange func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithConfirm sets the delete confirmation. Without it every delete is declined.
func WithConfirm(fn ConfirmFunc) SessionOption {
	return func(s *Session) { s.confirm = fn }
}

// WithSessionLogger sets where failed operations are reported.
func WithSessionLogger(logger *log.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithOnChange registers a callback run after each state change, e.g. to request a redraw.
func WithOnChange(fn func()) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession creates a Session in the loading state.
func NewSession(api *Client, opts ...SessionOption) *Session {
	s := &Session{
		api:     api,
		confirm: func(string) bool { return false },
		logger:  logging.Discard(),
		state:   NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// API returns the underlying HTTP client.
func (s *Session) API() *Client {
	return s.api
}

// Snapshot returns a copy of the current state for rendering.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Tasks = append([]task.Task(nil), s.state.Tasks...)
	return snap
}

func (s *Session) dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Load fetches the list once. A failure ends loading with the list unchanged.
func (s *Session) Load(ctx context.Context) error {
	tasks, err := s.api.List(ctx)
	if err != nil {
		s.logger.Error("load tasks", "err", err)
		s.dispatch(LoadFailed{})
		return err
	}
	s.dispatch(Loaded{Tasks: tasks})
	return nil
}

// SetDraft replaces the create form contents.
func (s *Session) SetDraft(title, description string) {
	s.dispatch(DraftChanged{Title: title, Description: description})
}

// Create submits the current draft. A blank title sends nothing.
func (s *Session) Create(ctx context.Context) (*task.Task, error) {
	draft := s.Snapshot().Draft
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrEmptyTitle
	}
	t, err := s.api.Create(ctx, draft.Title, draft.Description)
	if err != nil {
		s.logger.Error("create task", "err", err)
		return nil, err
	}
	s.dispatch(Created{Task: *t})
	return t, nil
}

// StartEdit enters edit mode for id.
func (s *Session) StartEdit(id string) {
	s.dispatch(EditStarted{ID: id})
}

// CancelEdit leaves edit mode without saving.
func (s *Session) CancelEdit() {
	s.dispatch(EditCancelled{})
}

// Update sends p for id. Edit mode is left only when the server accepts it.
func (s *Session) Update(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	t, err := s.api.Update(ctx, id, p)
	if err != nil {
		s.logger.Error("update task", "id", id, "err", err)
		return nil, err
	}
	s.dispatch(Updated{Task: *t})
	return t, nil
}

// Toggle flips the completed flag of id as currently held locally.
func (s *Session) Toggle(ctx context.Context, id string) (*task.Task, error) {
	cur, ok := s.Snapshot().Find(id)
	if !ok {
		return nil, task.ErrNotFound
	}
	done := !cur.Completed
	return s.Update(ctx, id, task.Patch{Completed: &done})
}

// Delete asks for confirmation, then removes id.
func (s *Session) Delete(ctx context.Context, id string) error {
	if !s.confirm(DeletePrompt) {
		return ErrDeclined
	}
	if err := s.api.Delete(ctx, id); err != nil {
		s.logger.Error("delete task", "id", id, "err", err)
		return err
	}
	s.dispatch(Deleted{ID: id})
	return nil
}
