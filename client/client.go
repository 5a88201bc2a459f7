package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// client constants
const (
	SendQueueSize = 64
	WriteTimeout  = 5 * time.Second
)

// Client is one websocket connection. Everything written to it goes through
// SendQueue so that a slow connection never blocks the game loop.
type Client struct {
	Conn      *websocket.Conn
	SendQueue chan []byte
	ID        string
	RoomId    string

	closed bool
	mu     sync.RWMutex
}

func New(conn *websocket.Conn, id string) *Client {
	return &Client{
		Conn:      conn,
		SendQueue: make(chan []byte, SendQueueSize),
		ID:        id,
	}
}

// Enqueue hands msg to the write pump without blocking. It reports false when
// the message was dropped because the queue is full or the client is closed.
func (c *Client) Enqueue(msg []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.SendQueue <- msg:
		return true
	default:
		return false
	}
}

// Close ends the write pump once it has drained the queue. Safe to call more
// than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.SendQueue)
}

// WritePump writes queued messages as binary frames until the queue is
// closed or a write fails. It closes the connection on the way out.
func (c *Client) WritePump(log logrus.FieldLogger) {
	defer c.Conn.Close()

	for msg := range c.SendQueue {
		c.Conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := c.Conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			log.Warnf("Write error: %v", err)
			return
		}
	}

	c.Conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
