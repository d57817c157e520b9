// Package ws serves the chat over a WebSocket connection.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/session"
	"github.com/xiaot623/gogo/memorychat/internal/transport/http/api"
)

// Options tune the connection lifecycle.
type Options struct {
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64
}

// Server handles WebSocket connections.
type Server struct {
	opts     Options
	service  api.ChatService
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewServer creates a new WebSocket server.
func NewServer(opts Options, service api.ChatService, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "ws").Logger()
	return &Server{
		opts:    opts,
		service: service,
		hub:     NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Hub returns the connection registry.
func (s *Server) Hub() *Hub {
	return s.hub
}

// RegisterRoutes registers the upgrade endpoint.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", s.HandleWebSocket)
}

// connection is one client socket. Only writePump writes frames.
type connection struct {
	id        string
	conn      *websocket.Conn
	sessionID string
	send      chan OutboundMessage
	closeOnce sync.Once
	done      chan struct{}
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// enqueue hands a frame to writePump; it gives up once the connection is closed.
func (c *connection) enqueue(msg OutboundMessage) {
	msg.Ts = time.Now().UnixMilli()
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

// HandleWebSocket upgrades the request and runs the connection. The session
// is the one resolved from the cookie of the upgrade request.
func (s *Server) HandleWebSocket(c echo.Context) error {
	sessionID := session.ID(c)

	wsConn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to upgrade websocket")
		return err
	}

	conn := &connection{
		id:        newConnectionID(),
		conn:      wsConn,
		sessionID: sessionID,
		send:      make(chan OutboundMessage, 16),
		done:      make(chan struct{}),
	}
	wsConn.SetReadLimit(s.opts.MaxMessageSize)
	s.hub.register(conn)

	go s.writePump(conn)
	go s.readPump(conn)

	s.logger.Debug().Str("conn_id", conn.id).Str("session_id", sessionID).Msg("websocket connected")
	return nil
}

// readPump reads frames and answers them in arrival order.
func (s *Server) readPump(conn *connection) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.hub.unregister(conn)
		conn.close()
	}()

	conn.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	conn.conn.SetPongHandler(func(string) error {
		conn.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		return nil
	})

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Str("session_id", conn.sessionID).Msg("websocket error")
			}
			return
		}

		s.handleMessage(ctx, conn, data)

		// The idle horizon starts once the answer is queued; a slow completion
		// must not count against it.
		conn.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (s *Server) writePump(conn *connection) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer func() {
		ticker.Stop()
		conn.close()
	}()

	for {
		select {
		case <-conn.done:
			return

		case msg := <-conn.send:
			conn.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.conn.WriteJSON(msg); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			conn.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches an inbound frame.
func (s *Server) handleMessage(ctx context.Context, conn *connection, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		conn.enqueue(OutboundMessage{Type: TypeError, Error: "invalid JSON message"})
		return
	}

	switch msg.Type {
	case TypeChat, "":
		reply, err := s.service.Chat(ctx, conn.sessionID, msg.Message)
		if err != nil {
			_, body := api.ErrorBody(err)
			conn.enqueue(OutboundMessage{Type: TypeError, RequestID: msg.RequestID, Error: body.Error, Details: body.Details})
			return
		}
		conn.enqueue(OutboundMessage{Type: TypeReply, RequestID: msg.RequestID, Reply: reply})

	case TypeReset:
		if err := s.service.Reset(ctx, conn.sessionID); err != nil {
			conn.enqueue(OutboundMessage{Type: TypeError, RequestID: msg.RequestID, Error: err.Error()})
			return
		}
		// Every open tab of the session has lost its memory.
		s.hub.Broadcast(conn.sessionID, OutboundMessage{Type: TypeResetAck, RequestID: msg.RequestID})

	default:
		conn.enqueue(OutboundMessage{Type: TypeError, RequestID: msg.RequestID, Error: "unknown message type: " + msg.Type})
	}
}
