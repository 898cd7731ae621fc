package usecase

import (
	"context"
	"log/slog"
	"strings"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
)

// OutcomeReporter forwards outcomes to notification subscribers and, when
// configured, to the audit stream.
type OutcomeReporter struct {
	broadcaster port.Broadcaster
	publisher   port.MessagePublisher
}

// NewOutcomeReporter accepts a nil publisher when no audit stream is configured.
func NewOutcomeReporter(b port.Broadcaster, p port.MessagePublisher) *OutcomeReporter {
	return &OutcomeReporter{broadcaster: b, publisher: p}
}

// Report broadcasts outcome to every notification subscriber.
func (r *OutcomeReporter) Report(ctx context.Context, outcome domain.Outcome) {
	r.deliver(ctx, outcome, "")
}

// ForActor returns a sink whose notifications only reach the given user.
func (r *OutcomeReporter) ForActor(actor string) port.OutcomeSink {
	actor = strings.TrimSpace(actor)
	return port.OutcomeSinkFunc(func(ctx context.Context, outcome domain.Outcome) {
		r.deliver(ctx, outcome, actor)
	})
}

func (r *OutcomeReporter) deliver(ctx context.Context, outcome domain.Outcome, actor string) {
	msg := domain.BuildOutcomeMessage(outcome, map[string]string{"userId": actor})
	if r.broadcaster != nil {
		r.broadcaster.Broadcast(ctx, msg)
	}
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, msg); err != nil {
		slog.Warn("outcome publish failed", slog.String("entity", outcome.Entity), slog.String("action", outcome.Action), slog.Any("error", err))
	}
}

var _ port.OutcomeSink = (*OutcomeReporter)(nil)
