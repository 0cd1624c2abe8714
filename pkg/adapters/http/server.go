package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/logging"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes caps request bodies. Module configurations are small; the
// largest real-world ones stay well under a megabyte.
const MaxBodyBytes = 4 << 20

// Server exposes wizard sessions over a JSON API. Every request restores
// the session from the Manager, applies one operation and saves it back,
// so any number of replicas can share one store.
type Server struct {
	Engine   *fomod.Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *fomod.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	return server.Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/validate", s.Validate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/select", s.Select)
			r.Post("/forward", s.Forward)
			r.Post("/backward", s.Backward)
			r.Get("/flags", s.GetFlags)
			r.Get("/plan", s.GetPlan)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRequest starts a session from raw XML texts.
type CreateRequest struct {
	ModuleConfig string `json:"module_config"`
	Info         string `json:"info,omitempty"`
	ArchiveName  string `json:"archive_name,omitempty"`
	Root         string `json:"root,omitempty"`
}

// SelectRequest selects or deselects one option.
type SelectRequest struct {
	Step     string `json:"step"`
	Group    string `json:"group"`
	Option   string `json:"option"`
	Selected bool   `json:"selected"`
}

// ActionResponse reports whether an operation took effect and the view after it.
type ActionResponse struct {
	Accepted bool       `json:"accepted"`
	View     fomod.View `json:"view"`
}

// ValidateResponse lists the problems of a module configuration.
type ValidateResponse struct {
	Valid    bool     `json:"valid"`
	Module   string   `json:"module,omitempty"`
	Steps    int      `json:"steps,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "fomod-http",
		"version": strings.TrimSpace(fomod.Version),
	})
}

// Validate handles the POST /validate request. The body is the raw
// ModuleConfig.xml.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	doc, err := s.Engine.Validate(raw)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.writeJSON(w, http.StatusOK, ValidateResponse{Problems: cfgErr.Problems})
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Module: doc.ModuleName, Steps: len(doc.Steps)})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		s.Logger.Warn("CreateSession: invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(body.ModuleConfig) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("module_config is required"))
		return
	}

	var info []byte
	if body.Info != "" {
		info = []byte(body.Info)
	}
	sess, err := s.Engine.Load([]byte(body.ModuleConfig), info)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	sess.SetArchive(body.ArchiveName, body.Root)

	if err := s.Sessions.Create(r.Context(), sess.Snapshot()); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.Logger.Info("session created", "session_id", sess.ID, "module", sess.Document().ModuleName)
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.writeJSON(w, http.StatusCreated, sess.View())
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Select handles the POST /sessions/{id}/select request.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(w, r, func(sess *fomod.Session) bool {
		if body.Selected {
			return sess.Select(body.Step, body.Group, body.Option)
		}
		return sess.Deselect(body.Step, body.Group, body.Option)
	})
}

// Forward handles the POST /sessions/{id}/forward request.
func (s *Server) Forward(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*fomod.Session).MoveForward)
}

// Backward handles the POST /sessions/{id}/backward request.
func (s *Server) Backward(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*fomod.Session).MoveBackward)
}

// GetFlags handles the GET /sessions/{id}/flags request.
func (s *Server) GetFlags(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Flags())
}

// GetPlan handles the GET /sessions/{id}/plan request.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Manifest())
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*fomod.Session, bool) {
	snap, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return nil, false
	}
	sess, err := s.Engine.Restore(snap)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return nil, false
	}
	return sess, true
}

// mutate applies op under the session lock and broadcasts the new view to
// subscribers when it took effect.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(*fomod.Session) bool) {
	id := chi.URLParam(r, "id")
	var resp ActionResponse
	_, err := s.Sessions.Update(r.Context(), id, func(snap *domain.Snapshot) (*domain.Snapshot, error) {
		sess, err := s.Engine.Restore(snap)
		if err != nil {
			return nil, err
		}
		resp.Accepted = op(sess)
		resp.View = sess.View()
		return sess.Snapshot(), nil
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if resp.Accepted {
		if payload, err := json.Marshal(resp.View); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Each accepted change to the session is pushed as its new view.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	s.Logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: view\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidSession), domain.IsConfigurationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "status", status, "error", err)
	}
	resp := ErrorResponse{Error: err.Error()}
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		resp.Error = "invalid module configuration"
		resp.Problems = cfgErr.Problems
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
		}
	}
}

// Subscribers returns the number of open streams for a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}
