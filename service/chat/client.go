package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"snappy/logger"
)

const writeWait = 5 * time.Second

// Client is one live websocket connection known to the gateway.
// Lifecycle: open (no identity bound) -> identified (bound to a user via the
// registry) -> closed. A connection that never identifies holds no registry
// entry and needs no cleanup beyond teardown.
type Client struct {
	ConnID string // process-unique, never reused

	ws   *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	userID string // set once identified; empty while open

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(connID string, ws *websocket.Conn, sendQueueSize int) *Client {
	if sendQueueSize <= 0 {
		sendQueueSize = 256
	}
	return &Client{
		ConnID: connID,
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Bind records the identity this connection authenticated as.
func (c *Client) Bind(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

// UserID returns the bound identity, or "" while the connection is anonymous.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// Enqueue hands a payload to the connection's writer without blocking.
// A saturated queue or a closed connection drops the payload; delivery is
// attempted exactly once and never retried.
func (c *Client) Enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		logger.Debugf("[client] send queue full, drop conn=%s user=%s", c.ConnID, c.UserID())
		return false
	}
}

// Close tears the transport down; safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// Closed reports whether Close has run.
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// WritePump drains the send queue onto the websocket. One writer goroutine
// per connection; a write error closes the connection, which in turn ends
// the read loop.
func (c *Client) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debugf("[client] write err conn=%s: %v", c.ConnID, err)
				c.Close()
				return
			}
		}
	}
}
