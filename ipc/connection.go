package ipc

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Transport moves whole envelopes. The framed unix-socket transport and the
// websocket transport both satisfy it.
type Transport interface {
	ReadEnvelope() (Envelope, error)
	WriteEnvelope(env Envelope) error
	Close() error
}

// framed is the length-prefixed transport over a stream connection.
type framed struct {
	conn net.Conn
}

func (f framed) ReadEnvelope() (Envelope, error)  { return ReadEnvelope(f.conn) }
func (f framed) WriteEnvelope(env Envelope) error { return WriteEnvelope(f.conn, env) }
func (f framed) Close() error                     { return f.conn.Close() }

// Connection represents a single engine session talking to the sidecar.
// Each match gets its own connection, identified after the hello handshake.
type Connection struct {
	transport Transport
	handlers  map[string]Handler
	writeMu   sync.Mutex
	Team      string
}

func NewConnection(t Transport, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		transport: t,
		handlers:  handlers,
	}
}

// NewSocketConnection wraps a stream connection with the length-prefixed framing.
func NewSocketConnection(conn net.Conn) *Connection {
	return NewConnection(framed{conn: conn}, nil)
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.transport.WriteEnvelope(env)
}

// ReadLoop blocks until the connection closes or errors. It owns the transport
// lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.transport.Close()

	for {
		env, err := c.transport.ReadEnvelope()
		if err != nil {
			slog.Info("connection read ended", "team", c.Team, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := dispatch(handler, env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "team", c.Team)
		}
	}
}

// dispatch runs one handler. A panic fails that message, not the process
// and the other matches it serves.
func dispatch(h Handler, env Envelope) (resp *Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(env)
}

// Close shuts the underlying transport, unblocking ReadLoop.
func (c *Connection) Close() error {
	return c.transport.Close()
}
