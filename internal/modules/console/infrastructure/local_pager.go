package infrastructure

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"adminConsole/internal/modules/console/domain"
)

// localPage filters, sorts and slices a full collection for endpoints that
// return plain arrays. "search" matches case-insensitively against the
// kind's searchable fields; every other filter is an exact match.
func localPage[T domain.Entity](kind *domain.Descriptor[T], items []T, query domain.QueryState) *domain.ResultPage[T] {
	query = query.Normalize()
	searchable := kind.SearchableFields()

	type row struct {
		item   T
		values map[string]string
	}
	rows := make([]row, 0, len(items))
	for _, item := range items {
		values := kind.Values(item)
		if !matchesFilters(values, searchable, query.Filters) {
			continue
		}
		rows = append(rows, row{item: item, values: values})
	}

	if key := strings.TrimSpace(query.SortKey); key != "" {
		descending := query.SortDir == domain.SortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			cmp := compareValues(rows[i].values[key], rows[j].values[key])
			if descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	total := len(rows)
	page := &domain.ResultPage[T]{
		Items:      []T{},
		PageIndex:  query.PageIndex,
		PageSize:   query.PageSize,
		TotalItems: total,
		TotalPages: domain.TotalPagesFor(total, query.PageSize),
	}
	start := query.PageIndex * query.PageSize
	if start >= total {
		return page
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}
	for _, r := range rows[start:end] {
		page.Items = append(page.Items, r.item)
	}
	return page
}

func matchesFilters(values map[string]string, searchable []string, filters map[string]string) bool {
	for key, want := range filters {
		if key == "search" {
			if !matchesSearch(values, searchable, want) {
				return false
			}
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(values[key]), want) {
			return false
		}
	}
	return true
}

func matchesSearch(values map[string]string, searchable []string, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	for _, field := range searchable {
		if strings.Contains(strings.ToLower(values[field]), needle) {
			return true
		}
	}
	return false
}

// compareValues orders numerically when both sides parse as numbers and
// case-insensitively otherwise.
func compareValues(a, b string) int {
	left, leftErr := decimal.NewFromString(strings.TrimSpace(a))
	right, rightErr := decimal.NewFromString(strings.TrimSpace(b))
	if leftErr == nil && rightErr == nil {
		return left.Cmp(right)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
