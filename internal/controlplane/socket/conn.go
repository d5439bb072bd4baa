package socket

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrBackpressure is returned by Send when a socket's outbound queue is
// full; the caller treats the send as best-effort and moves on.
var ErrBackpressure = errors.New("socket: backpressure")

// Conn wraps one administrator websocket connection and implements
// domain.SocketHandle (Send/Disconnect) over it.
type Conn struct {
	ws   *websocket.Conn
	send chan wireFrame

	mu     sync.RWMutex
	closed bool
}

type wireFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws, send: make(chan wireFrame, 32)}
}

// Send implements domain.SocketHandle.
func (c *Conn) Send(event string, payload any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("socket: closed")
	}
	select {
	case c.send <- wireFrame{Type: event, Payload: payload}:
		return nil
	default:
		return ErrBackpressure
	}
}

// Disconnect implements domain.SocketHandle. closeImmediate is honored by
// closing the underlying connection right away rather than draining queued
// frames first; the read/write pumps notice the close and exit.
func (c *Conn) Disconnect(closeImmediate bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	if closeImmediate {
		_ = c.ws.Close()
	}
}
