package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/internal/logging"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/ports"
	"github.com/formwork-dev/formwork/pkg/session"
)

// Server exposes the evaluation engine over HTTP. Draft routes are only
// mounted when a session manager is configured; the engine routes are
// stateless.
type Server struct {
	engine   ports.Evaluator
	sessions *session.Manager
	metrics  http.Handler
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions mounts the draft CRUD routes on top of a session manager.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithMetricsHandler mounts a metrics endpoint, typically promhttp.Handler().
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// EvaluateRequest is the body of evaluation and draft-writing calls.
type EvaluateRequest struct {
	Data map[string]any `json:"data"`
}

// GraphResponse describes the declared workflow graph.
type GraphResponse struct {
	Flow  []domain.FlowNode `json:"flow"`
	Edges []domain.Edge     `json:"edges"`
}

// CreateDraftResponse returns the new draft's ID with its initial state.
type CreateDraftResponse struct {
	ID    string                `json:"id"`
	State *domain.WorkflowState `json:"state"`
}

// DraftResponse returns a stored draft, with its evaluated state when the
// caller asked for it.
type DraftResponse struct {
	Snapshot *domain.Snapshot      `json:"snapshot"`
	State    *domain.WorkflowState `json:"state,omitempty"`
}

// SaveDraftResponse returns the state after a write plus what changed
// since the previous evaluation.
type SaveDraftResponse struct {
	State *domain.WorkflowState `json:"state"`
	Diff  *domain.StateDiff     `json:"diff,omitempty"`
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.Evaluator, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	r.Post("/workflow-state", s.EvaluateState)
	r.Get("/definition/graph", s.GetGraph)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	if s.sessions != nil {
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", s.CreateDraft)
			r.Get("/", s.ListDrafts)
			r.Get("/{id}", s.GetDraft)
			r.Put("/{id}", s.SaveDraft)
			r.Delete("/{id}", s.DeleteDraft)
		})
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles the GET /health request.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles the GET /info request.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "formwork-http",
		"version": strings.TrimSpace(formwork.Version),
	})
}

// EvaluateState handles the POST /workflow-state request.
func (s *Server) EvaluateState(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("evaluate: invalid request body", "err", err)
		return
	}

	state, err := s.engine.GetWorkflowState(r.Context(), body.Data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Evaluation error: %v", err), http.StatusInternalServerError)
		s.logger.Error("evaluate failed", "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, state)
}

// GetGraph handles the GET /definition/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	idx := s.engine.Definition()
	s.writeJSON(w, http.StatusOK, GraphResponse{
		Flow:  idx.Flow(),
		Edges: idx.Edges(),
	})
}

// CreateDraft handles the POST /drafts request.
func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("create draft: invalid request body", "err", err)
		return
	}

	id, state, err := s.sessions.Start(r.Context(), body.Data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Draft error: %v", err), http.StatusInternalServerError)
		s.logger.Error("create draft failed", "err", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, CreateDraftResponse{ID: id, State: state})
}

// ListDrafts handles the GET /drafts request.
func (s *Server) ListDrafts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Draft error: %v", err), http.StatusInternalServerError)
		s.logger.Error("list drafts failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"drafts": ids})
}

// GetDraft handles the GET /drafts/{id} request. With ?evaluate the stored
// data is also run through the engine.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, "Draft not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Draft error: %v", err), http.StatusInternalServerError)
		s.logger.Error("load draft failed", "draft_id", id, "err", err)
		return
	}

	resp := DraftResponse{Snapshot: snap}
	if r.URL.Query().Has("evaluate") {
		state, err := s.engine.GetWorkflowState(r.Context(), snap.Data)
		if err != nil {
			http.Error(w, fmt.Sprintf("Evaluation error: %v", err), http.StatusInternalServerError)
			s.logger.Error("evaluate draft failed", "draft_id", id, "err", err)
			return
		}
		resp.State = state
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// SaveDraft handles the PUT /drafts/{id} request.
func (s *Server) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("save draft: invalid request body", "draft_id", id, "err", err)
		return
	}

	state, diff, err := s.sessions.Save(r.Context(), id, body.Data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Draft error: %v", err), http.StatusInternalServerError)
		s.logger.Error("save draft failed", "draft_id", id, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, SaveDraftResponse{State: state, Diff: diff})
}

// DeleteDraft handles the DELETE /drafts/{id} request.
func (s *Server) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Draft error: %v", err), http.StatusInternalServerError)
		s.logger.Error("delete draft failed", "draft_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
