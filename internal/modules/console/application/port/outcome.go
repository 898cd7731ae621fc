package port

import (
	"context"

	"adminConsole/internal/modules/console/domain"
)

// OutcomeSink receives reportable outcomes. Implementations must not block
// the caller for long; the core emits from its own goroutine.
type OutcomeSink interface {
	Report(ctx context.Context, outcome domain.Outcome)
}

// OutcomeSinkFunc adapts a function to OutcomeSink.
type OutcomeSinkFunc func(ctx context.Context, outcome domain.Outcome)

func (f OutcomeSinkFunc) Report(ctx context.Context, outcome domain.Outcome) {
	f(ctx, outcome)
}

// Broadcaster pushes messages to websocket subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// MessagePublisher forwards messages to an external stream.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *domain.Message) error
}
