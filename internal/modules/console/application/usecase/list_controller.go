package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/platform/metrics"
)

// ErrStaleResponse is returned to the caller whose request was superseded
// by a newer one before its response arrived. The response was dropped.
var ErrStaleResponse = errors.New("list response superseded")

// ListController owns the query and the last fetched page of one mounted list
// view. Only the response of the most recently issued request may update the
// stored page.
type ListController[T domain.Entity] struct {
	kind   *domain.Descriptor[T]
	client port.ResourceClient[T]

	mu          sync.Mutex
	query       domain.QueryState
	page        *domain.ResultPage[T]
	issued      uint64
	loading     bool
	lastFailure *domain.Failure
	observers   []func()
}

// NewListController mounts a list for kind starting from initial.
func NewListController[T domain.Entity](kind *domain.Descriptor[T], client port.ResourceClient[T], initial domain.QueryState) *ListController[T] {
	return &ListController[T]{
		kind:   kind,
		client: client,
		query:  initial.Normalize(),
	}
}

// Observe registers fn to be called after every state change. Observers run
// outside the controller's lock.
func (lc *ListController[T]) Observe(fn func()) {
	if fn == nil {
		return
	}
	lc.mu.Lock()
	lc.observers = append(lc.observers, fn)
	lc.mu.Unlock()
}

// SetQuery applies patch and fetches the resulting page. Any non-page change
// resets the page index to zero. Filter and sort keys the kind does not
// support are ignored.
func (lc *ListController[T]) SetQuery(ctx context.Context, patch domain.QueryPatch) (*domain.ResultPage[T], error) {
	lc.mu.Lock()
	next, _ := lc.query.Apply(lc.kind.ScopePatch(patch))
	lc.query = next
	query, seq := lc.issueLocked(nil)
	lc.mu.Unlock()
	lc.notify()
	return lc.await(ctx, query, seq, true)
}

// Refetch reloads the current page, or pageIndex when given.
func (lc *ListController[T]) Refetch(ctx context.Context, pageIndex *int) (*domain.ResultPage[T], error) {
	lc.mu.Lock()
	query, seq := lc.issueLocked(pageIndex)
	lc.mu.Unlock()
	lc.notify()
	return lc.await(ctx, query, seq, true)
}

// issueLocked records a new request and returns its query and sequence
// number. Callers hold mu.
func (lc *ListController[T]) issueLocked(pageIndex *int) (domain.QueryState, uint64) {
	if pageIndex != nil {
		lc.query = lc.query.WithPage(*pageIndex)
	}
	lc.issued++
	lc.loading = true
	return lc.query.Clone(), lc.issued
}

func (lc *ListController[T]) await(ctx context.Context, query domain.QueryState, seq uint64, redirect bool) (*domain.ResultPage[T], error) {
	logger := slog.With(slog.String("entity", lc.kind.Name), slog.Uint64("seq", seq), slog.String("queryKey", query.CanonicalKey()))
	logger.Debug("list fetch start")

	page, err := lc.client.List(ctx, query)
	if err == nil {
		if checkErr := page.Check(); checkErr != nil {
			err = domain.NewFailure(domain.FailureServer, lc.kind.Name+".list", checkErr.Error())
		}
	}

	lc.mu.Lock()
	if seq != lc.issued {
		latest := lc.issued
		lc.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues(lc.kind.Name).Inc()
		logger.Debug("list response discarded", slog.Uint64("latest", latest))
		return nil, ErrStaleResponse
	}
	if err != nil {
		failure := domain.AsFailure(lc.kind.Name+".list", err)
		lc.lastFailure = failure
		lc.loading = false
		lc.mu.Unlock()
		metrics.ListFailuresTotal.WithLabelValues(lc.kind.Name, string(failure.Kind)).Inc()
		logger.Warn("list fetch failed", slog.String("kind", string(failure.Kind)), slog.Int("status", failure.Status), slog.Any("error", err))
		lc.notify()
		return nil, failure
	}
	if redirect && page.OutOfRange() {
		last := page.LastPageIndex()
		nextQuery, nextSeq := lc.issueLocked(&last)
		lc.mu.Unlock()
		logger.Info("list page out of range", slog.Int("pageIndex", page.PageIndex), slog.Int("lastPage", last))
		return lc.await(ctx, nextQuery, nextSeq, false)
	}
	lc.page = page
	lc.query.PageIndex = page.PageIndex
	lc.lastFailure = nil
	lc.loading = false
	result := page.Clone()
	lc.mu.Unlock()

	logger.Debug("list fetch applied", slog.Int("items", len(page.Items)), slog.Int("totalItems", page.TotalItems))
	lc.notify()
	return result, nil
}

func (lc *ListController[T]) notify() {
	lc.mu.Lock()
	observers := append([]func(){}, lc.observers...)
	lc.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

// CurrentPage returns a copy of the last applied page, or nil before the
// first successful fetch.
func (lc *ListController[T]) CurrentPage() *domain.ResultPage[T] {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.page.Clone()
}

// IsLoading reports whether the most recently issued request is in flight.
func (lc *ListController[T]) IsLoading() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.loading
}

// Query returns the current query.
func (lc *ListController[T]) Query() domain.QueryState {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.query.Clone()
}

// CurrentPageIndex is the page a same-position refetch should reload.
func (lc *ListController[T]) CurrentPageIndex() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.query.PageIndex
}

// LastFailure returns the failure of the latest applied fetch. A non-nil
// value marks the view as errored while the previous page stays visible.
func (lc *ListController[T]) LastFailure() *domain.Failure {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.lastFailure
}

// Find looks up a row of the current page.
func (lc *ListController[T]) Find(identity string) (T, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.page.Find(identity)
}

// Kind returns the descriptor the list was mounted with.
func (lc *ListController[T]) Kind() *domain.Descriptor[T] {
	return lc.kind
}
