package stream

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxCommand = 512
)

// client is one websocket connection. Frames are queued on send and
// dropped when the client falls behind or its limiter says no.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	ip      string
	logger  *slog.Logger

	dropped int
}

// offer queues a frame if the limiter allows it and the buffer has room.
func (c *client) offer(msg []byte) {
	if !c.limiter.Allow() {
		return
	}
	select {
	case c.send <- msg:
	default:
		c.dropped++
		if c.dropped%100 == 1 {
			c.logger.Debug("client too slow, frame dropped", "remote_ip", c.ip, "dropped", c.dropped)
		}
	}
}

// writePump owns all writes to the connection. It returns when send is
// closed or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", "remote_ip", c.ip, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes commands until the connection closes.
func (c *client) readPump(commands chan<- Command, done <-chan struct{}) {
	c.conn.SetReadLimit(maxCommand)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "remote_ip", c.ip, "error", err)
			}
			return
		}
		if err := cmd.validate(); err != nil {
			c.logger.Warn("bad command", "remote_ip", c.ip, "error", err)
			continue
		}
		select {
		case commands <- cmd:
		case <-done:
			return
		}
	}
}
