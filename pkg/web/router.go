package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionHeader carries the session ID back to the embedding page so it can
// reconnect to the same widget state.
const SessionHeader = "X-Marionette-Session"

// Router exposes the widget over HTTP:
//
//	GET /widget        render the widget (204 while the gate is closed)
//	GET /ws            websocket feed of store updates
//	GET /api/settings  resolved settings as JSON
type Router struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	mux      *chi.Mux
}

// RouterOption configures optional dependencies for a Router.
type RouterOption func(*Router) error

func WithWebSocketUpgrader(u websocket.Upgrader) RouterOption {
	return func(r *Router) error {
		r.upgrader = u
		return nil
	}
}

func WithRouterLogger(logger zerolog.Logger) RouterOption {
	return func(r *Router) error {
		r.logger = logger
		return nil
	}
}

func NewRouter(hub *Hub, opts ...RouterOption) (*Router, error) {
	if hub == nil {
		return nil, errors.New("hub is nil")
	}
	r := &Router{
		hub:    hub,
		logger: log.With().Str("component", "web").Logger(),
		mux:    chi.NewRouter(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.mux.Get("/widget", r.handleWidget)
	r.mux.Get("/ws", r.handleWS)
	r.mux.Get("/api/settings", r.handleSettings)
	return r, nil
}

// Handler returns the mountable HTTP handler.
func (r *Router) Handler() http.Handler { return r.mux }

func (r *Router) session(req *http.Request) (*Session, error) {
	return r.hub.GetOrCreate(req.URL.Query().Get("session"), req.Header.Get("User-Agent"))
}

func (r *Router) handleWidget(w http.ResponseWriter, req *http.Request) {
	sess, err := r.session(req)
	if err != nil {
		r.logger.Error().Err(err).Msg("widget session setup failed")
		http.Error(w, "session setup failed", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := sess.Root.Render(req.Context(), &buf); err != nil {
		r.logger.Error().Err(err).Str("session_id", sess.ID).Msg("widget render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set(SessionHeader, sess.ID)
	if buf.Len() == 0 {
		// gate closed: still resolving, or the platform is disabled
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (r *Router) handleWS(w http.ResponseWriter, req *http.Request) {
	sess, err := r.session(req)
	if err != nil {
		r.logger.Error().Err(err).Msg("ws session setup failed")
		http.Error(w, "session setup failed", http.StatusInternalServerError)
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, http.Header{SessionHeader: []string{sess.ID}})
	if err != nil {
		// Upgrade already wrote the error response.
		r.logger.Debug().Err(err).Str("session_id", sess.ID).Msg("ws upgrade failed")
		return
	}
	if err := r.hub.AttachWebSocket(sess.ID, conn); err != nil {
		r.logger.Error().Err(err).Str("session_id", sess.ID).Msg("ws attach failed")
		_ = conn.Close()
	}
}

func (r *Router) handleSettings(w http.ResponseWriter, req *http.Request) {
	sess, err := r.session(req)
	if err != nil {
		r.logger.Error().Err(err).Msg("settings session setup failed")
		http.Error(w, "session setup failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set(SessionHeader, sess.ID)
	payload := map[string]any{"ready": sess.Root.Ready()}
	if sess.Root.Ready() {
		payload["settings"] = sess.Root.Settings().Get()
	}
	r.writeJSON(w, http.StatusOK, payload)
}

func (r *Router) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.logger.Warn().Err(err).Msg("write json response failed")
	}
}
