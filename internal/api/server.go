package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"taskboard/internal/logging"
	"taskboard/pkg/task"
)

// Server is the HTTP API server.
type Server struct {
	tasks   task.Store
	logger  *log.Logger
	origins []string
	router  *mux.Router
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORSOrigins sets the origins allowed by CORS. The default allows any origin.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// New creates a new Server.
func New(tasks task.Store, opts ...Option) *Server {
	s := &Server{
		tasks:   tasks,
		logger:  logging.Discard(),
		origins: []string{"*"},
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	s.handler = s.middleware(s.router)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	// Tasks
	r.HandleFunc("/api/tasks", s.handleTaskList).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", s.handleTaskCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", s.handleTaskGet).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", s.handleTaskUpdate).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", s.handleTaskDelete).Methods(http.MethodDelete)

	// System
	r.HandleFunc("/", s.handleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Método no permitido")
	})
}

// middleware wraps h, outermost first: request id, access log, panic recovery, CORS.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
	h = withLogging(s.logger)(h)
	return withRequestID(h)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json", "status", status, "err", err)
	}
}

// writeError writes the {"message": ...} error body clients expect.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"message": msg})
}
