package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"jokenpo/internal/match"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 30 * time.Second
	pingPeriod   = 25 * time.Second
	maxFrameSize = 4096
	sendBuffer   = 256
	sendWait     = 2 * time.Second
	commandWait  = 5 * time.Second
)

// Client is one websocket connection bound to one match session.
type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte

	hub   *Hub
	coord *match.Coordinator
	log   *slog.Logger

	sendWait  time.Duration
	lastSeen  atomic.Int64
	closed    chan struct{}
	closeOnce sync.Once
}

// Run serves the connection until the peer goes away or the client is
// closed by the hub.
func (c *Client) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump()
	c.hub.register(c)
	defer c.hub.unregister(c)

	go c.coord.Run(ctx)

	snapCtx, snapCancel := context.WithTimeout(ctx, commandWait)
	snap, err := c.coord.Snapshot(snapCtx)
	snapCancel()
	if err != nil {
		c.log.Warn("initial snapshot", "error", err)
	}
	c.push(MsgReady, ReadyPayload{PlayerID: c.PlayerID, Session: snap})

	c.readPump(ctx)

	cancel()
	<-c.coord.Done()
	c.Close()
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = c.Conn.Close()
	})
}

// IdleSince is the last time the peer sent a frame.
func (c *Client) IdleSince() time.Time {
	return time.Unix(0, c.lastSeen.Load())
}

func (c *Client) touch() {
	c.lastSeen.Store(c.hub.clock.Now().UnixNano())
}

// push queues a frame. Reveal frames are dropped when the peer falls
// behind; any other frame waits up to sendWait, then the session is closed.
func (c *Client) push(msgType string, data any) {
	msg, err := encode(msgType, data)
	if err != nil {
		c.log.Error("encode frame", "type", msgType, "error", err)
		return
	}
	select {
	case <-c.closed:
		return
	case c.Send <- msg:
		return
	default:
	}

	if msgType == MsgReveal {
		c.log.Debug("send buffer full, dropping reveal frame")
		return
	}

	timer := time.NewTimer(c.sendWait)
	defer timer.Stop()
	select {
	case <-c.closed:
	case c.Send <- msg:
	case <-timer.C:
		c.log.Warn("peer is not draining frames, closing session", "type", msgType)
		c.Close()
	}
}

func (c *Client) readPump(ctx context.Context) {
	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read error", "error", err)
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch()

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.push(MsgError, ErrorPayload{Message: "malformed frame"})
			continue
		}
		c.handle(ctx, in)
	}
}

func (c *Client) handle(ctx context.Context, in Inbound) {
	ctx, cancel := context.WithTimeout(ctx, commandWait)
	defer cancel()

	switch in.Type {
	case MsgMove:
		move, err := parseMove(in.Value)
		if err != nil {
			c.push(MsgError, ErrorPayload{Message: err.Error()})
			return
		}
		if err := c.coord.Submit(ctx, move); err != nil {
			if !errors.Is(err, match.ErrClosed) {
				c.push(MsgError, ErrorPayload{Message: err.Error()})
			}
		}
	case MsgReset:
		if err := c.coord.Reset(ctx); err != nil {
			c.log.Warn("reset", "error", err)
		}
	case MsgMusic:
		enabled, err := parseBool(in.Value)
		if err != nil {
			c.push(MsgError, ErrorPayload{Message: err.Error()})
			return
		}
		if err := c.coord.SetMusicEnabled(ctx, enabled); err != nil {
			c.log.Warn("persist music preference", "error", err)
		}
	case MsgPing:
		c.push(MsgPong, nil)
	default:
		c.push(MsgError, ErrorPayload{Message: "unknown message type: " + in.Type})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("write error", "error", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
