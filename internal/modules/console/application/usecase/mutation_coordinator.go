package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/platform/metrics"
)

// MutationCoordinator executes create/update/delete/toggle against the
// resource client and reloads the owning list afterwards. It holds no state
// between calls; callers keep at most one mutation in flight per identity.
type MutationCoordinator[T domain.Entity] struct {
	kind     *domain.Descriptor[T]
	client   port.ResourceClient[T]
	list     *ListController[T]
	session  port.Session
	outcomes port.OutcomeSink
	now      func() time.Time
}

// NewMutationCoordinator wires a coordinator to the list it keeps consistent.
// A nil session allows every action; a nil sink drops outcomes.
func NewMutationCoordinator[T domain.Entity](list *ListController[T], client port.ResourceClient[T], session port.Session, outcomes port.OutcomeSink) *MutationCoordinator[T] {
	if outcomes == nil {
		outcomes = port.OutcomeSinkFunc(func(context.Context, domain.Outcome) {})
	}
	return &MutationCoordinator[T]{
		kind:     list.Kind(),
		client:   client,
		list:     list,
		session:  session,
		outcomes: outcomes,
		now:      time.Now,
	}
}

// Create sends a new record and reloads page zero.
func (mc *MutationCoordinator[T]) Create(ctx context.Context, fields map[string]string) (T, error) {
	var zero T
	op := mc.op(domain.ActionCreate)
	if err := mc.authorize(op); err != nil {
		return zero, mc.fail(ctx, domain.ActionCreate, "", err)
	}
	payload, err := mc.kind.Payload(fields)
	if err != nil {
		return zero, mc.fail(ctx, domain.ActionCreate, "", err)
	}
	created, err := mc.client.Create(ctx, payload)
	if err != nil {
		return zero, mc.fail(ctx, domain.ActionCreate, "", err)
	}
	mc.succeed(ctx, domain.ActionCreate, created.Identity(), mc.kind.Singular+" added successfully!")
	mc.reload(ctx, 0)
	return created, nil
}

// Update sends the edited fields and reloads the current page.
func (mc *MutationCoordinator[T]) Update(ctx context.Context, identity string, fields map[string]string) (T, error) {
	var zero T
	op := mc.op(domain.ActionUpdate)
	identity = strings.TrimSpace(identity)
	if err := mc.authorize(op); err != nil {
		return zero, mc.fail(ctx, domain.ActionUpdate, identity, err)
	}
	if identity == "" {
		return zero, mc.fail(ctx, domain.ActionUpdate, identity, domain.NewFailure(domain.FailureValidation, op, "missing identity"))
	}
	payload, err := mc.kind.Payload(fields)
	if err != nil {
		return zero, mc.fail(ctx, domain.ActionUpdate, identity, err)
	}
	updated, err := mc.client.Update(ctx, identity, payload)
	if err != nil {
		return zero, mc.fail(ctx, domain.ActionUpdate, identity, err)
	}
	mc.succeed(ctx, domain.ActionUpdate, identity, mc.kind.Singular+" updated successfully!")
	mc.reload(ctx, mc.list.CurrentPageIndex())
	return updated, nil
}

// Delete removes a record and reloads page zero. A referential conflict is
// surfaced verbatim and nothing is cascaded.
func (mc *MutationCoordinator[T]) Delete(ctx context.Context, identity string) error {
	op := mc.op(domain.ActionDelete)
	identity = strings.TrimSpace(identity)
	if err := mc.authorize(op); err != nil {
		return mc.fail(ctx, domain.ActionDelete, identity, err)
	}
	if identity == "" {
		return mc.fail(ctx, domain.ActionDelete, identity, domain.NewFailure(domain.FailureValidation, op, "missing identity"))
	}
	if err := mc.client.Delete(ctx, identity); err != nil {
		return mc.fail(ctx, domain.ActionDelete, identity, err)
	}
	mc.succeed(ctx, domain.ActionDelete, identity, mc.kind.Singular+" deleted")
	mc.reload(ctx, 0)
	return nil
}

// ToggleStatus flips the record's status field and reloads the current page.
func (mc *MutationCoordinator[T]) ToggleStatus(ctx context.Context, identity string) (T, error) {
	var zero T
	op := mc.op(domain.ActionToggle)
	identity = strings.TrimSpace(identity)
	if err := mc.authorize(op); err != nil {
		return zero, mc.fail(ctx, domain.ActionToggle, identity, err)
	}
	if mc.kind.Toggle == nil {
		return zero, mc.fail(ctx, domain.ActionToggle, identity,
			domain.NewFailure(domain.FailureValidation, op, mc.kind.Singular+" has no status to change"))
	}

	current, ok := mc.list.Find(identity)
	if !ok {
		fetched, err := mc.client.Get(ctx, identity)
		if err != nil {
			return zero, mc.fail(ctx, domain.ActionToggle, identity, err)
		}
		current = fetched
	}

	change := mc.kind.Toggle(current)
	value, err := mc.kind.Coerce(change.Field, change.Value)
	if err != nil {
		return zero, mc.fail(ctx, domain.ActionToggle, identity, domain.NewFailure(domain.FailureValidation, op, err.Error()))
	}
	patched, err := mc.client.PatchField(ctx, identity, change.Field, value)
	if err != nil {
		return zero, mc.fail(ctx, domain.ActionToggle, identity, err)
	}
	mc.succeed(ctx, domain.ActionToggle, identity, "Status changed to "+change.Label)
	mc.reload(ctx, mc.list.CurrentPageIndex())
	return patched, nil
}

func (mc *MutationCoordinator[T]) op(action string) string {
	return mc.kind.Name + "." + action
}

func (mc *MutationCoordinator[T]) authorize(op string) error {
	if mc.session == nil {
		return nil
	}
	if mc.session.CurrentUser() == nil {
		return &domain.Failure{Kind: domain.FailureAuthorization, Op: op, Message: "Please sign in again", Err: port.ErrNoSession}
	}
	if !mc.session.HasPrivilege(port.CapabilityAdminister) {
		return domain.NewFailure(domain.FailureAuthorization, op, "Only administrators can change "+mc.kind.Name)
	}
	return nil
}

// fail converts err, reports it and, for vanished targets, reloads the
// current page so the stale row disappears.
func (mc *MutationCoordinator[T]) fail(ctx context.Context, action, identity string, err error) *domain.Failure {
	failure := domain.AsFailure(mc.op(action), err)
	metrics.MutationsTotal.WithLabelValues(mc.kind.Name, action, string(failure.Kind)).Inc()
	slog.Warn("mutation failed",
		slog.String("entity", mc.kind.Name),
		slog.String("action", action),
		slog.String("identity", identity),
		slog.String("kind", string(failure.Kind)),
		slog.Int("status", failure.Status),
		slog.String("message", failure.Message),
	)
	mc.outcomes.Report(ctx, domain.FailureOutcome(mc.kind.Name, action, identity, failure, mc.now()))
	if failure.Kind == domain.FailureNotFound {
		mc.reload(ctx, mc.list.CurrentPageIndex())
	}
	return failure
}

func (mc *MutationCoordinator[T]) succeed(ctx context.Context, action, identity, message string) {
	metrics.MutationsTotal.WithLabelValues(mc.kind.Name, action, "ok").Inc()
	slog.Info("mutation succeeded", slog.String("entity", mc.kind.Name), slog.String("action", action), slog.String("identity", identity))
	mc.outcomes.Report(ctx, domain.SuccessOutcome(mc.kind.Name, action, identity, message, mc.now()))
}

// reload refetches pageIndex. Failures of the reload are reported as list
// outcomes; they never turn a completed mutation into a failed one.
func (mc *MutationCoordinator[T]) reload(ctx context.Context, pageIndex int) {
	_, err := mc.list.Refetch(ctx, &pageIndex)
	if err == nil || errors.Is(err, ErrStaleResponse) {
		return
	}
	mc.outcomes.Report(ctx, domain.FailureOutcome(mc.kind.Name, domain.ActionList, "", err, mc.now()))
	slog.Debug("mutation reload failed", slog.String("entity", mc.kind.Name), slog.String("error", fmt.Sprint(err)))
}
