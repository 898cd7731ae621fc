package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"adminConsole/internal/modules/console/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
)

// ClientIdentity is the metadata a connection is registered and filtered by.
type ClientIdentity struct {
	UserID    string
	SessionID string
	ViewID    string
	Entity    string
}

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	userID     string
	sessionID  string
	viewID     string
	entity     string
	commands   *CommandProcessor
	subscribed map[string]struct{}
	closeOnce  sync.Once
	receiveAll bool
	closeHooks []func(*Client)
	hookMu     sync.Mutex
	// ctx lives as long as the connection; command contexts derive from it.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a websocket client with a buffered outbound queue.
func NewClient(hub *Hub, conn *websocket.Conn, identity ClientIdentity, buf int, commandFn CommandHandler) *Client {
	if buf <= 0 {
		buf = 16
	}
	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		userID:     strings.TrimSpace(identity.UserID),
		sessionID:  strings.TrimSpace(identity.SessionID),
		viewID:     strings.TrimSpace(identity.ViewID),
		entity:     strings.TrimSpace(identity.Entity),
		subscribed: make(map[string]struct{}),
	}
	client.ctx, client.cancel = context.WithCancel(context.Background())
	client.commands = NewCommandProcessor(hub, commandFn)
	return client
}

// EnableReceiveAll marks the client as a global subscriber.
func (c *Client) EnableReceiveAll() {
	c.receiveAll = true
}

func (c *Client) UserID() string    { return c.userID }
func (c *Client) SessionID() string { return c.sessionID }
func (c *Client) ViewID() string    { return c.viewID }
func (c *Client) Entity() string    { return c.entity }

// Context is cancelled when the client closes.
func (c *Client) Context() context.Context { return c.ctx }

// Commands exposes the processor so transports can register handlers.
func (c *Client) Commands() *CommandProcessor { return c.commands }

func (c *Client) key() string {
	parts := []string{c.userID, c.sessionID}
	if c.viewID != "" {
		parts = append(parts, c.viewID)
	}
	if c.receiveAll {
		parts = append(parts, "all")
	}
	return strings.Join(parts, ":")
}

func (c *Client) logAttrs() []any {
	attrs := []any{slog.String("userId", c.userID), slog.String("sessionId", c.sessionID)}
	if c.viewID != "" {
		attrs = append(attrs, slog.String("viewId", c.viewID))
	}
	if c.entity != "" {
		attrs = append(attrs, slog.String("entity", c.entity))
	}
	return attrs
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.invokeCloseHooks()
	})
}

// AddCloseHook registers a callback that runs once when the client closes.
func (c *Client) AddCloseHook(fn func(*Client)) {
	if fn == nil {
		return
	}
	c.hookMu.Lock()
	c.closeHooks = append(c.closeHooks, fn)
	c.hookMu.Unlock()
}

func (c *Client) invokeCloseHooks() {
	c.hookMu.Lock()
	hooks := append([]func(*Client){}, c.closeHooks...)
	c.closeHooks = nil
	c.hookMu.Unlock()

	for _, hook := range hooks {
		func(h func(*Client)) {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("ws close hook panic", slog.Any("error", r))
				}
			}()
			h(c)
		}(hook)
	}
}

// SendDomainMessage queues msg for this client only. A full queue detaches
// the client.
func (c *Client) SendDomainMessage(msg *domain.Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	defer func() {
		// send on a closed queue after detach
		if r := recover(); r != nil {
			slog.Debug("websocket send after close", c.logAttrs()...)
		}
	}()
	select {
	case c.send <- data:
	default:
		slog.Warn("websocket send buffer full", c.logAttrs()...)
		go c.hub.detachClient(c)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", append(c.logAttrs(), slog.Any("error", err))...)
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				slog.Warn("websocket ping error", append(c.logAttrs(), slog.Any("error", err))...)
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", append(c.logAttrs(), slog.Any("error", err))...)
			}
			return
		}
		c.processCommand(cmd)
	}
}

func (c *Client) processCommand(cmd Command) {
	if c.commands == nil {
		return
	}
	c.commands.Process(c, cmd)
}
