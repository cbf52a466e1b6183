package transport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	outboxSize     = 256
)

// Connection is one websocket client. Reads happen on the caller goroutine,
// writes on the WritePump goroutine.
type Connection struct {
	id        string
	socket    *websocket.Conn
	outbox    chan []byte
	limiter   *rate.Limiter
	log       *slog.Logger
	closeOnce sync.Once
	done      chan struct{}
}

func NewConnection(id string, socket *websocket.Conn, limiter *rate.Limiter, log *slog.Logger) *Connection {
	socket.SetReadLimit(maxMessageSize)
	_ = socket.SetReadDeadline(time.Now().Add(pongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &Connection{
		id:      id,
		socket:  socket,
		outbox:  make(chan []byte, outboxSize),
		limiter: limiter,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (c *Connection) ID() string {
	return c.id
}

// Deliver queues a frame without blocking. It fails once the connection is
// closed or its outbox is full.
func (c *Connection) Deliver(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.outbox <- frame:
		return true
	default:
		return false
	}
}

// ReadPump hands every frame to handle until the socket fails or ctx ends.
// Frames over the rate limit are passed to limited instead.
func (c *Connection) ReadPump(ctx context.Context, handle func(frame []byte), limited func()) {
	for ctx.Err() == nil {
		_, frame, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Websocket closed unexpectedly", "player_id", c.id, "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			limited()
			continue
		}
		handle(frame)
	}
}

// WritePump drains the outbox and pings the peer until Close.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.outbox:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("Websocket write failed", "player_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close stops the write pump and closes the socket. Safe to call twice.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.socket.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = c.socket.Close()
	})
}
