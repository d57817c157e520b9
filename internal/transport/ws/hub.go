package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub tracks the open connections of each session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*connection
	logger   zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[string]*connection),
		logger:   logger,
	}
}

func (h *Hub) register(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.sessions[conn.sessionID]
	if conns == nil {
		conns = make(map[string]*connection)
		h.sessions[conn.sessionID] = conns
	}
	conns[conn.id] = conn
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.sessions[conn.sessionID]
	if !ok {
		return
	}
	delete(conns, conn.id)
	if len(conns) == 0 {
		delete(h.sessions, conn.sessionID)
	}
}

// Broadcast sends msg to every connection of sessionID. A connection whose
// buffer is full is closed.
func (h *Hub) Broadcast(sessionID string, msg OutboundMessage) {
	msg.Ts = time.Now().UnixMilli()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conn := range h.sessions[sessionID] {
		select {
		case conn.send <- msg:
		case <-conn.done:
		default:
			h.logger.Warn().Str("conn_id", id).Msg("connection buffer full, closing")
			go conn.close()
		}
	}
}

// ConnectionCount returns the number of open connections of sessionID.
func (h *Hub) ConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// SessionCount returns the number of sessions with an open connection.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func newConnectionID() string {
	return "conn_" + uuid.New().String()[:8]
}
