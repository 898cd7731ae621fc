package port

import (
	"context"

	"adminConsole/internal/modules/console/domain"
)

// ResourceClient performs typed request/response exchanges for one entity
// kind. Every error it returns is a *domain.Failure.
type ResourceClient[T domain.Entity] interface {
	List(ctx context.Context, query domain.QueryState) (*domain.ResultPage[T], error)
	Get(ctx context.Context, identity string) (T, error)
	// Create and Update take payloads already coerced to wire types.
	Create(ctx context.Context, payload map[string]any) (T, error)
	Update(ctx context.Context, identity string, payload map[string]any) (T, error)
	// Delete reports a referential conflict as a FailureConflict.
	Delete(ctx context.Context, identity string) error
	PatchField(ctx context.Context, identity, field string, value any) (T, error)
}
