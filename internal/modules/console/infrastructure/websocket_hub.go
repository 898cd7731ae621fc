package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"adminConsole/internal/modules/console/domain"
)

// Hub tracks connected console clients. View connections are addressed by
// view id and only see broadcasts about their own entity; notification
// connections register as global subscribers and see every entity.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	views   map[string]*Client
	global  map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
		views:   make(map[string]*Client),
		global:  make(map[*Client]struct{}),
	}
}

func (c *Client) isView() bool {
	return c.viewID != "" && !c.receiveAll
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.key()]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.key()] = c
	if c.isView() {
		h.views[c.viewID] = c
	}
	slog.Info("ws client registered", c.logAttrs()...)
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(c.subscribed, topic)
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	if current, ok := h.clients[c.key()]; ok && current == c {
		delete(h.clients, c.key())
	}
	if current, ok := h.views[c.viewID]; ok && current == c {
		delete(h.views, c.viewID)
	}
	delete(h.global, c)
	c.close()
	slog.Info("ws client detached", c.logAttrs()...)
}

// SendToView delivers msg to the view connection with the given id. It
// reports false when no such view is connected.
func (h *Hub) SendToView(_ context.Context, viewID string, msg *domain.Message) bool {
	viewID = strings.TrimSpace(viewID)
	if viewID == "" || msg == nil {
		return false
	}
	h.mu.RLock()
	client, ok := h.views[viewID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	client.SendDomainMessage(msg)
	return true
}

// Broadcast delivers msg to topic subscribers and global subscribers,
// narrowed by the userId, sessionId and viewId metadata when present. View
// connections skip messages about other entities.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	subscribers := h.topics[msg.Topic]
	clients := make([]*Client, 0, len(subscribers)+len(h.global))
	seen := make(map[*Client]struct{}, len(subscribers)+len(h.global))
	for c := range subscribers {
		clients = append(clients, c)
		seen[c] = struct{}{}
	}
	for c := range h.global {
		if _, ok := seen[c]; ok {
			continue
		}
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var targetUser, targetSession, targetView string
	if msg.Metadata != nil {
		targetUser = strings.TrimSpace(msg.Metadata["userId"])
		targetSession = strings.TrimSpace(msg.Metadata["sessionId"])
		targetView = strings.TrimSpace(msg.Metadata["viewId"])
	}

	for _, c := range clients {
		if targetUser != "" && c.userID != targetUser {
			continue
		}
		if targetSession != "" && c.sessionID != targetSession {
			continue
		}
		if targetView != "" && c.viewID != "" && c.viewID != targetView {
			continue
		}
		if !sameEntity(c, msg.Entity) {
			continue
		}
		select {
		case c.send <- data:
		default:
			go h.detachClient(c)
		}
	}
}

func sameEntity(c *Client, entity string) bool {
	entity = strings.TrimSpace(entity)
	if !c.isView() || c.entity == "" || entity == "" || entity == domain.SystemEntity {
		return true
	}
	return c.entity == entity
}

func (h *Hub) AttachClient(c *Client, topics []string) {
	h.registerClient(c)
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			h.subscribe(c, trimmed)
		}
	}
	slog.Info("ws client attached", append(c.logAttrs(), slog.Any("topics", topics))...)
}

// AttachClientToAll registers the client as a global subscriber receiving every broadcasted message.
func (h *Hub) AttachClientToAll(c *Client) {
	c.EnableReceiveAll()
	h.registerClient(c)
	h.mu.Lock()
	h.global[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("ws client attached to all topics", c.logAttrs()...)
}

// ClientCount reports how many clients are currently registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
