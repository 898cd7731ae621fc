package domain

import "fmt"

// Entity is any record the console can list and mutate.
type Entity interface {
	Identity() string
}

// ResultPage is one server-returned page of entities plus pagination metadata.
// TotalItems and TotalPages are taken verbatim from the server.
type ResultPage[T Entity] struct {
	Items      []T `json:"items"`
	PageIndex  int `json:"pageIndex"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Check reports a malformed page: more items than the page size allows.
func (p *ResultPage[T]) Check() error {
	if p == nil {
		return fmt.Errorf("result page missing")
	}
	if p.PageSize <= 0 {
		return fmt.Errorf("result page size %d is not positive", p.PageSize)
	}
	if len(p.Items) > p.PageSize {
		return fmt.Errorf("result page holds %d items for page size %d", len(p.Items), p.PageSize)
	}
	return nil
}

// OutOfRange reports whether the page index points past the last page of a
// non-empty collection, which happens when the collection shrank under us.
func (p *ResultPage[T]) OutOfRange() bool {
	if p == nil || p.TotalItems <= 0 {
		return false
	}
	return p.PageIndex >= p.TotalPages
}

// LastPageIndex returns the index of the last page, or zero for empty collections.
func (p *ResultPage[T]) LastPageIndex() int {
	if p == nil || p.TotalPages <= 0 {
		return 0
	}
	return p.TotalPages - 1
}

// Find returns the item with the given identity when it is on this page.
func (p *ResultPage[T]) Find(identity string) (T, bool) {
	var zero T
	if p == nil || identity == "" {
		return zero, false
	}
	for _, item := range p.Items {
		if item.Identity() == identity {
			return item, true
		}
	}
	return zero, false
}

// Clone copies the page so callers cannot alias the stored item slice.
func (p *ResultPage[T]) Clone() *ResultPage[T] {
	if p == nil {
		return nil
	}
	cloned := *p
	cloned.Items = append([]T(nil), p.Items...)
	return &cloned
}

// TotalPagesFor computes ceil(total/size). Only used when the server omits the
// value, e.g. for unpaged collections paged locally.
func TotalPagesFor(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
