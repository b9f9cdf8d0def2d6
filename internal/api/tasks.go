package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/pkg/task"
)

const maxBodyBytes = 1 << 20 // 1 MiB

const (
	msgNotFound = "Tarea no encontrada"
	msgDeleted  = "Tarea eliminada"
)

var errBodyTooLarge = errors.New("payload too large")

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.fail(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	req, err := task.DecodeCreate(body)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	t, err := s.tasks.Create(r.Context(), req.Title, req.Description)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.tasks.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}

	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	patch, err := task.DecodePatch(body)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}

	patch.Apply(t)
	saved, err := s.tasks.Save(ctx, t)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": msgDeleted})
}

// fail writes err with the status statusFor picks. Server errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	status := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"rid", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	s.writeError(w, status, messageFor(err))
}

// statusFor maps the task error kinds to an HTTP status. Anything unclassified
// gets fallback, which differs per operation.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrInvalidID), task.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return fallback
	}
}

func messageFor(err error) string {
	if errors.Is(err, task.ErrNotFound) {
		return msgNotFound
	}
	return err.Error()
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, errors.New("failed to read body")
	}
	if int64(len(b)) > limit {
		return nil, errBodyTooLarge
	}
	return b, nil
}
