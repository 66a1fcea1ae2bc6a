package ipc

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// wsTransport carries one envelope per text frame.
type wsTransport struct {
	conn *websocket.Conn
}

func (w wsTransport) ReadEnvelope() (Envelope, error) {
	_, msg, err := w.conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read frame: %w", err)
	}
	if len(msg) > maxFrame {
		return Envelope{}, fmt.Errorf("invalid message length: %d", len(msg))
	}
	return decodeEnvelope(msg)
}

func (w wsTransport) WriteEnvelope(env Envelope) error {
	if err := w.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (w wsTransport) Close() error { return w.conn.Close() }

// NewWebSocketConnection wraps an established websocket.
func NewWebSocketConnection(conn *websocket.Conn) *Connection {
	conn.SetReadLimit(maxFrame)
	return NewConnection(wsTransport{conn: conn}, nil)
}

// DialWebSocket connects the sidecar to an engine that serves websockets.
func DialWebSocket(ctx context.Context, url string) (*Connection, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWebSocketConnection(conn), nil
}
