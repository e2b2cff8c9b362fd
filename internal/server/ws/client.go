package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatrelay/internal/logging"
	"github.com/dmitrijs2005/chatrelay/internal/server/models"
	"github.com/gofiber/contrib/websocket"
)

var errConnClosed = errors.New("connection closed")

// Timing bundles the websocket keepalive and buffering knobs.
type Timing struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// client wraps one websocket connection. It implements presence.Handle:
// Deliver pushes a message frame into the outbound queue, from which a
// single writer goroutine flushes to the wire.
type client struct {
	conn   *websocket.Conn
	timing Timing
	logger logging.Logger

	out       chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, timing Timing, logger logging.Logger) *client {
	return &client{
		conn:   conn,
		timing: timing,
		logger: logger,
		out:    make(chan outbound, timing.SendBuffer),
		done:   make(chan struct{}),
	}
}

// Deliver queues a message frame for the client. A nil return means the
// frame was accepted into the outbound queue; it does not mean the client
// has received it. Fails once the connection is closing or when the queue
// stays full past the write deadline.
func (c *client) Deliver(msg *models.Message) error {
	return c.enqueue(outbound{Event: EventMessage, Data: msg})
}

func (c *client) ack(seq int64) error {
	return c.enqueue(outbound{Event: EventAck, Seq: seq})
}

func (c *client) enqueue(frame outbound) error {
	timer := time.NewTimer(c.timing.WriteWait)
	defer timer.Stop()

	select {
	case c.out <- frame:
		return nil
	case <-c.done:
		return errConnClosed
	case <-timer.C:
		return errors.New("outbound queue full")
	}
}

// close signals the writer to stop and closes the underlying connection.
// Idempotent; safe from both pumps.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump is the single writer for the connection. It flushes outbound
// frames and keeps the connection alive with periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(c.timing.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case frame := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(c.timing.WriteWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				c.logger.Warn(context.Background(), "websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.timing.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// readPump consumes frames from the wire until the connection drops.
// Frames are processed serially, so a disconnect can never deregister the
// session ahead of a send the router has already accepted.
func (c *client) readPump(ctx context.Context, handle func(seq int64, p sendPayload) error) {
	c.conn.SetReadLimit(c.timing.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn(ctx, "websocket read failed", "error", err)
			}
			return
		}

		var frame envelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Warn(ctx, "dropping unparsable frame", "error", err)
			continue
		}
		if frame.Event != EventSend {
			continue
		}

		var payload sendPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.RecipientID == "" {
			continue
		}

		if err := handle(frame.Seq, payload); err != nil {
			// no ack: the sender observes a timeout and may resend
			continue
		}
		if err := c.ack(frame.Seq); err != nil {
			return
		}
	}
}
