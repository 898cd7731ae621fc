package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"adminConsole/internal/modules/console/domain"
)

const defaultCommandTimeout = 10 * time.Second

type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

// Decode unmarshals the payload into target. An empty payload leaves target
// untouched.
func (c Command) Decode(target any) error {
	if len(c.Payload) == 0 || string(c.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(c.Payload, target)
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

type registeredHandler struct {
	handle CommandHandler
	async  bool
}

// CommandProcessor dispatches client commands. Inline handlers run on the
// read loop in arrival order; async handlers and the fallback each run on
// their own goroutine bounded by a timeout so a slow request never blocks
// the connection. Every handler context ends when the client closes.
type CommandProcessor struct {
	hub      *Hub
	handlers map[string]registeredHandler
	fallback CommandHandler
	timeout  time.Duration
}

func NewCommandProcessor(hub *Hub, fallback CommandHandler) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]registeredHandler),
		fallback: fallback,
		timeout:  defaultCommandTimeout,
	}
	processor.Register("subscribe", processor.handleSubscribe)
	processor.Register("unsubscribe", processor.handleUnsubscribe)
	processor.Register("ping", processor.handlePing)
	return processor
}

// Register installs an inline handler.
func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	p.register(action, handler, false)
}

// RegisterAsync installs a handler that runs off the read loop.
func (p *CommandProcessor) RegisterAsync(action string, handler CommandHandler) {
	p.register(action, handler, true)
}

func (p *CommandProcessor) register(action string, handler CommandHandler, async bool) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.handlers[key] = registeredHandler{handle: handler, async: async}
}

// SetTimeout bounds async handlers; non-positive values are ignored.
func (p *CommandProcessor) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		p.timeout = timeout
	}
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}

	action := cmd.actionKey()
	if action == "" {
		return
	}

	if handler, ok := p.handlers[action]; ok {
		if !handler.async {
			handler.handle(client.Context(), client, cmd)
			return
		}
		p.runAsync(handler.handle, client, cmd)
		return
	}

	if p.fallback == nil {
		slog.Debug("ws command ignored", append(client.logAttrs(), slog.String("action", action))...)
		return
	}
	p.runAsync(p.fallback, client, cmd)
}

func (p *CommandProcessor) runAsync(handler CommandHandler, client *Client, cmd Command) {
	ctx, cancel := context.WithTimeout(client.Context(), p.timeout)
	go func() {
		defer cancel()
		handler(ctx, client, cmd)
	}()
}

func (p *CommandProcessor) handleSubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.subscribe(client, topic)
	slog.Debug("ws subscribe", append(client.logAttrs(), slog.String("topic", topic))...)
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
	slog.Debug("ws unsubscribe", append(client.logAttrs(), slog.String("topic", topic))...)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: time.Now().UTC(),
	})
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
