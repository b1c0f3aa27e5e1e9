package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/florecer/florecer/internal/catalog"
	"github.com/florecer/florecer/internal/config"
	"github.com/florecer/florecer/internal/observability"
	"github.com/florecer/florecer/internal/pipeline"
	"github.com/florecer/florecer/internal/reliability"
	"github.com/florecer/florecer/internal/session"
)

// SessionPipeline generates one complete meditation from a validated
// request.
type SessionPipeline interface {
	RunSession(ctx context.Context, req pipeline.Request) (*pipeline.AudioResource, error)
}

type Server struct {
	cfg      config.Config
	sessions *session.Manager
	pipeline SessionPipeline
	metrics  *observability.Metrics
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, pipe SessionPipeline, metrics *observability.Metrics, logger *log.Logger) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		pipeline: pipe,
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from
				// the same origin, so another site cannot drive a user's
				// player if the service is exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/v1/personas", s.handleListPersonas)
	r.Get("/v1/tags", s.handleListTags)
	r.Post("/v1/sessions/generate", s.handleGenerateSession)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Get("/v1/sessions/{id}/audio", s.handleSessionAudio)
	r.Post("/v1/sessions/{id}/end", s.handleEndSession)
	r.Get("/v1/sessions/{id}/playback/ws", s.handlePlaybackWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"active_sessions": s.sessions.ActiveCount(),
	})
}

func (s *Server) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"personas": catalog.Personas(),
	})
}

func (s *Server) handleListTags(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"tags": catalog.Tags(),
	})
}

// handleGenerateSession runs the full compose/generate/synthesize
// pipeline and responds with the raw narration audio. The session id
// for later handoff travels in the X-Session-ID header so the body can
// stay a plain MPEG stream.
func (s *Server) handleGenerateSession(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := s.pipeline.RunSession(r.Context(), req)
	if err != nil {
		status, code := reliability.Classify(err)
		s.logger.Error("session generation failed", "persona", req.PersonaID, "code", code, "err", err)
		respondError(w, status, code, err.Error())
		return
	}

	persona, _ := catalog.Persona(res.PersonaID())
	sess := s.sessions.Create(res.PersonaID(), persona.VoiceID, res.Tags(), res)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("created").Inc()
	s.logger.Info("session generated", "session_id", sess.ID, "persona", sess.PersonaID, "bytes", sess.AudioBytes)

	writeAudio(w, res, sess.ID)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// handleSessionAudio re-serves a session's narration for the player
// page after navigation. Once the handle is revoked the audio is gone
// for good and the endpoint answers 410.
func (s *Server) handleSessionAudio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.sessions.Resource(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session_not_found", err.Error())
			return
		}
		respondError(w, http.StatusGone, "audio_released", err.Error())
		return
	}
	_ = s.sessions.Touch(id)
	writeAudio(w, res, id)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	sess, err := s.sessions.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("ended").Inc()
	respondJSON(w, http.StatusOK, sess)
}

func writeAudio(w http.ResponseWriter, res *pipeline.AudioResource, sessionID string) {
	data, err := res.Bytes()
	if err != nil {
		respondError(w, http.StatusGone, "audio_released", err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Session-ID", sessionID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
