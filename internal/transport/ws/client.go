package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client talks to a memorychat server over its WebSocket endpoint.
type Client struct {
	conn   *websocket.Conn
	onPush func(OutboundMessage)
}

// Dial connects to addr, e.g. ws://localhost:3000/ws.
func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Client{conn: conn}, nil
}

// OnPush registers fn for frames that answer another connection's request,
// such as a reset made in a different tab of the same session.
func (c *Client) OnPush(fn func(OutboundMessage)) {
	c.onPush = fn
}

// Close closes the client connection.
func (c *Client) Close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}

// Chat sends message and returns the reply. Server-side failures come back
// as a *FrameError.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	out, err := c.do(ctx, InboundMessage{Type: TypeChat, Message: message})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Reset asks the server to forget every conversation.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.do(ctx, InboundMessage{Type: TypeReset})
	return err
}

// FrameError is an error frame returned by the server.
type FrameError struct {
	Message string
	Details string
}

func (e *FrameError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

func (c *Client) do(ctx context.Context, in InboundMessage) (OutboundMessage, error) {
	in.RequestID = "req_" + uuid.New().String()[:8]

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
		c.conn.SetReadDeadline(deadline)
		defer c.conn.SetReadDeadline(time.Time{})
	}

	if err := c.conn.WriteJSON(in); err != nil {
		return OutboundMessage{}, fmt.Errorf("write %s: %w", in.Type, err)
	}

	for {
		var out OutboundMessage
		if err := c.conn.ReadJSON(&out); err != nil {
			return OutboundMessage{}, fmt.Errorf("read reply: %w", err)
		}
		if out.RequestID != in.RequestID {
			if c.onPush != nil {
				c.onPush(out)
			}
			continue
		}
		if out.Type == TypeError {
			return out, &FrameError{Message: out.Error, Details: out.Details}
		}
		return out, nil
	}
}
