// Package web embeds widget roots behind HTTP: one session per mount, with
// store updates fanned out to the session's websocket connections.
package web

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/bus"
	"github.com/go-go-golems/marionette/pkg/widget"
)

// RootFactory builds the widget root for a new session. The user agent is
// the one seen at mount; the factory classifies it once and fixes the
// platform for the session's lifetime. Wiring b into the root (WithBus) is
// what makes store writes reach the session's sockets.
type RootFactory func(userAgent string, b *bus.Bus) (*widget.Root, error)

// Session binds one widget mount to its event bus and socket pool.
type Session struct {
	ID        string
	Root      *widget.Root
	CreatedAt time.Time

	bus    *bus.Bus
	pool   *ConnectionPool
	cancel context.CancelFunc
}

type HubConfig struct {
	BaseCtx     context.Context
	NewRoot     RootFactory
	IdleTimeout time.Duration
}

// Hub owns widget sessions: it creates roots on demand, forwards their store
// updates to connected sockets, and evicts sessions whose pools go idle.
type Hub struct {
	baseCtx     context.Context
	newRoot     RootFactory
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewHub(cfg HubConfig) (*Hub, error) {
	if cfg.BaseCtx == nil {
		return nil, errors.New("hub base context is nil")
	}
	if cfg.NewRoot == nil {
		return nil, errors.New("hub root factory is nil")
	}
	return &Hub{
		baseCtx:     cfg.BaseCtx,
		newRoot:     cfg.NewRoot,
		idleTimeout: cfg.IdleTimeout,
		sessions:    map[string]*Session{},
	}, nil
}

// GetOrCreate returns the session for sessionID, creating it (and starting
// its root's resolution) on first sight. An empty sessionID allocates one.
func (h *Hub) GetOrCreate(sessionID, userAgent string) (*Session, error) {
	if h == nil {
		return nil, errors.New("hub is not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if sessionID != "" {
		if sess, ok := h.sessions[sessionID]; ok {
			return sess, nil
		}
	} else {
		sessionID = uuid.NewString()
	}

	b := bus.New()
	root, err := h.newRoot(userAgent, b)
	if err != nil {
		_ = b.Close()
		return nil, errors.Wrap(err, "build widget root")
	}
	if root == nil {
		_ = b.Close()
		return nil, errors.New("root factory returned nil")
	}

	sessCtx, cancel := context.WithCancel(h.baseCtx)
	sess := &Session{
		ID:        sessionID,
		Root:      root,
		CreatedAt: time.Now(),
		bus:       b,
		pool:      NewConnectionPool(sessionID, h.idleTimeout, func() { h.evict(sessionID) }),
		cancel:    cancel,
	}
	h.sessions[sessionID] = sess

	// subscribe before Start so the initial settings publication is not lost
	for _, topic := range []string{bus.TopicSettingsUpdated, bus.TopicMessagesUpdated, bus.TopicPathsUpdated} {
		if err := sess.forward(sessCtx, topic); err != nil {
			log.Warn().Err(err).
				Str("component", "web").
				Str("session_id", sessionID).
				Str("topic", topic).
				Msg("store forwarding unavailable")
		}
	}
	root.Start(sessCtx)

	log.Debug().
		Str("component", "web").
		Str("session_id", sessionID).
		Str("platform", root.Platform().String()).
		Msg("session created")
	return sess, nil
}

// Get returns an existing session.
func (h *Hub) Get(sessionID string) (*Session, bool) {
	if h == nil {
		return nil, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	sess, ok := h.sessions[sessionID]
	return sess, ok
}

// AttachWebSocket adds conn to the session's pool and pumps its read loop
// until the client goes away. Inbound "ping" frames are answered with
// "pong"; everything else is ignored, the socket is a one-way state feed.
func (h *Hub) AttachWebSocket(sessionID string, conn *websocket.Conn) error {
	if h == nil {
		return errors.New("hub is not initialized")
	}
	if conn == nil {
		return errors.New("websocket connection is nil")
	}
	sess, ok := h.Get(sessionID)
	if !ok {
		return errors.Errorf("unknown session %q", sessionID)
	}

	sess.pool.Add(conn)
	wsLog := log.With().
		Str("component", "web").
		Str("session_id", sessionID).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	wsLog.Debug().Msg("ws attached")

	go func() {
		defer sess.pool.Remove(conn)
		defer wsLog.Debug().Msg("ws detached")
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(data)), "ping") {
				sess.pool.SendToOne(conn, []byte("pong"))
			}
		}
	}()
	return nil
}

// Close evicts every session.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.evict(id)
	}
}

// evict tears a session down. A resolver result landing afterwards writes
// into stores nobody observes anymore; that is the intended discard
// behavior for unmount-before-settle.
func (h *Hub) evict(sessionID string) {
	h.mu.Lock()
	sess, ok := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	if !ok {
		return
	}
	sess.cancel()
	sess.pool.CloseAll()
	if err := sess.bus.Close(); err != nil {
		log.Warn().Err(err).
			Str("component", "web").
			Str("session_id", sessionID).
			Msg("bus close failed")
	}
	log.Debug().Str("component", "web").Str("session_id", sessionID).Msg("session evicted")
}

// forward pumps one bus topic into the session's socket pool.
func (s *Session) forward(ctx context.Context, topic string) error {
	ch, err := s.bus.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	go func() {
		for msg := range ch {
			envelope, err := json.Marshal(map[string]any{
				"topic": topic,
				"data":  json.RawMessage(msg.Payload),
			})
			if err == nil {
				s.pool.Broadcast(envelope)
			}
			msg.Ack()
		}
	}()
	return nil
}
