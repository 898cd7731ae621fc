package domain

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// reservedQueryKeys are the pagination and sort parameters. A filter may never
// use one of them.
var reservedQueryKeys = map[string]struct{}{
	"page":    {},
	"size":    {},
	"sortby":  {},
	"sortdir": {},
}

// IsReservedQueryKey reports whether key names a pagination or sort parameter.
func IsReservedQueryKey(key string) bool {
	_, ok := reservedQueryKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// SortDirection is the ordering applied to the sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// NormalizeSortDirection lowercases the input and falls back to ascending order.
func NormalizeSortDirection(raw string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(SortDesc):
		return SortDesc
	default:
		return SortAsc
	}
}

// QueryState describes which subset of a remote collection is currently shown.
type QueryState struct {
	PageIndex int               `json:"pageIndex"`
	PageSize  int               `json:"pageSize"`
	SortKey   string            `json:"sortKey"`
	SortDir   SortDirection     `json:"sortDir"`
	Filters   map[string]string `json:"filters,omitempty"`
}

// QueryPatch carries a partial QueryState. Nil fields are left untouched; a nil
// filter value clears that filter.
type QueryPatch struct {
	PageIndex *int               `json:"pageIndex,omitempty"`
	PageSize  *int               `json:"pageSize,omitempty"`
	SortKey   *string            `json:"sortKey,omitempty"`
	SortDir   *string            `json:"sortDir,omitempty"`
	Filters   map[string]*string `json:"filters,omitempty"`
}

// PageOnly builds a patch that only navigates to the given page.
func PageOnly(index int) QueryPatch {
	return QueryPatch{PageIndex: &index}
}

// Normalize returns a sanitized copy applying defaults and bounds.
func (q QueryState) Normalize() QueryState {
	normalized := q
	if normalized.PageIndex < 0 {
		normalized.PageIndex = 0
	}
	normalized.PageSize = clampPageSize(normalized.PageSize)
	normalized.SortKey = strings.TrimSpace(normalized.SortKey)
	normalized.SortDir = NormalizeSortDirection(string(normalized.SortDir))
	normalized.Filters = sanitizeFilters(normalized.Filters)
	return normalized
}

// Clone returns a copy that does not share the filter map.
func (q QueryState) Clone() QueryState {
	cloned := q
	if q.Filters != nil {
		cloned.Filters = make(map[string]string, len(q.Filters))
		for key, value := range q.Filters {
			cloned.Filters[key] = value
		}
	}
	return cloned
}

// Apply merges the patch into the query. Any effective change to a field other
// than the page index resets the page index to zero, because the old page no
// longer means the same thing. The second return value reports whether anything
// besides the page index changed.
func (q QueryState) Apply(patch QueryPatch) (QueryState, bool) {
	next := q.Normalize().Clone()
	reset := false

	if patch.PageSize != nil {
		if size := clampPageSize(*patch.PageSize); size != next.PageSize {
			next.PageSize = size
			reset = true
		}
	}
	if patch.SortKey != nil {
		if key := strings.TrimSpace(*patch.SortKey); key != next.SortKey {
			next.SortKey = key
			reset = true
		}
	}
	if patch.SortDir != nil {
		if dir := NormalizeSortDirection(*patch.SortDir); dir != next.SortDir {
			next.SortDir = dir
			reset = true
		}
	}
	for rawKey, rawValue := range patch.Filters {
		key := strings.TrimSpace(rawKey)
		if key == "" || IsReservedQueryKey(key) {
			continue
		}
		value := ""
		if rawValue != nil {
			value = strings.TrimSpace(*rawValue)
		}
		current, present := next.Filters[key]
		switch {
		case value == "" && present:
			delete(next.Filters, key)
			reset = true
		case value != "" && current != value:
			if next.Filters == nil {
				next.Filters = map[string]string{}
			}
			next.Filters[key] = value
			reset = true
		}
	}
	if len(next.Filters) == 0 {
		next.Filters = nil
	}

	switch {
	case reset:
		next.PageIndex = 0
	case patch.PageIndex != nil:
		next.PageIndex = *patch.PageIndex
		if next.PageIndex < 0 {
			next.PageIndex = 0
		}
	}
	return next, reset
}

// WithPage returns a copy pointing at the given page; other fields are kept.
func (q QueryState) WithPage(index int) QueryState {
	next := q.Clone()
	if index < 0 {
		index = 0
	}
	next.PageIndex = index
	return next
}

// Filter returns the active value for key, or "" when the filter is absent.
func (q QueryState) Filter(key string) string {
	return q.Filters[strings.TrimSpace(key)]
}

// CanonicalKey builds a stable key for logging and metrics.
func (q QueryState) CanonicalKey() string {
	normalized := q.Normalize()
	filtersKey := canonicalFiltersKey(normalized.Filters)

	var builder strings.Builder
	builder.Grow(len(normalized.SortKey) + len(filtersKey) + 48)
	builder.WriteString("page=")
	builder.WriteString(strconv.Itoa(normalized.PageIndex))
	builder.WriteString("&size=")
	builder.WriteString(strconv.Itoa(normalized.PageSize))
	builder.WriteString("&sortBy=")
	builder.WriteString(strings.ToLower(normalized.SortKey))
	builder.WriteString("&sortDir=")
	builder.WriteString(string(normalized.SortDir))
	if filtersKey != "" {
		builder.WriteString("&filters=")
		builder.WriteString(filtersKey)
	}
	return builder.String()
}

// ToURLValues serializes the query for the REST API. Absent filters are omitted
// entirely rather than sent empty.
func (q QueryState) ToURLValues() url.Values {
	normalized := q.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.PageIndex))
	values.Set("size", strconv.Itoa(normalized.PageSize))
	if normalized.SortKey != "" {
		values.Set("sortBy", normalized.SortKey)
		values.Set("sortDir", string(normalized.SortDir))
	}
	for key, value := range normalized.Filters {
		if IsReservedQueryKey(key) {
			continue
		}
		values.Set(key, value)
	}
	return values
}

// Metadata flattens the query into the string map carried by outgoing messages.
func (q QueryState) Metadata() map[string]string {
	normalized := q.Normalize()
	metadata := map[string]string{
		"page":    strconv.Itoa(normalized.PageIndex),
		"size":    strconv.Itoa(normalized.PageSize),
		"sortDir": string(normalized.SortDir),
	}
	if normalized.SortKey != "" {
		metadata["sortBy"] = normalized.SortKey
	}
	for key, value := range normalized.Filters {
		metadata["filter."+key] = value
	}
	return metadata
}

func clampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

func sanitizeFilters(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	sanitized := make(map[string]string, len(filters))
	for key, value := range filters {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" || IsReservedQueryKey(trimmedKey) {
			continue
		}
		sanitized[trimmedKey] = trimmedValue
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}

func canonicalFiltersKey(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for index, key := range keys {
		if index > 0 {
			builder.WriteString(";")
		}
		builder.WriteString(strings.ToLower(key))
		builder.WriteString("=")
		builder.WriteString(filters[key])
	}
	return builder.String()
}
