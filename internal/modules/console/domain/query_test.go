package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(value string) *string { return &value }
func intPtr(value int) *int       { return &value }

func TestQueryStateNormalizeAppliesBounds(t *testing.T) {
	query := QueryState{PageIndex: -3, PageSize: 500, SortKey: "  name ", SortDir: "DESC", Filters: map[string]string{" status ": " ACTIVE ", "search": "  "}}.Normalize()

	assert.Equal(t, 0, query.PageIndex)
	assert.Equal(t, MaxPageSize, query.PageSize)
	assert.Equal(t, "name", query.SortKey)
	assert.Equal(t, SortDesc, query.SortDir)
	assert.Equal(t, map[string]string{"status": "ACTIVE"}, query.Filters)

	assert.Equal(t, DefaultPageSize, QueryState{}.Normalize().PageSize)
	assert.Equal(t, SortAsc, QueryState{SortDir: "sideways"}.Normalize().SortDir)
}

func TestQueryStateApplyResetsPageOnEffectiveChange(t *testing.T) {
	base := QueryState{PageIndex: 3, PageSize: 10, SortKey: "id", SortDir: SortAsc, Filters: map[string]string{"status": "ACTIVE"}}

	cases := []struct {
		name      string
		patch     QueryPatch
		wantPage  int
		wantReset bool
	}{
		{name: "page only", patch: PageOnly(5), wantPage: 5},
		{name: "same size", patch: QueryPatch{PageSize: intPtr(10)}, wantPage: 3},
		{name: "new size", patch: QueryPatch{PageSize: intPtr(25)}, wantPage: 0, wantReset: true},
		{name: "new sort key", patch: QueryPatch{SortKey: strPtr("salary")}, wantPage: 0, wantReset: true},
		{name: "new sort dir", patch: QueryPatch{SortDir: strPtr("desc")}, wantPage: 0, wantReset: true},
		{name: "same filter", patch: QueryPatch{Filters: map[string]*string{"status": strPtr("ACTIVE")}}, wantPage: 3},
		{name: "new filter", patch: QueryPatch{Filters: map[string]*string{"search": strPtr("ann")}}, wantPage: 0, wantReset: true},
		{name: "cleared filter", patch: QueryPatch{Filters: map[string]*string{"status": nil}}, wantPage: 0, wantReset: true},
		{name: "clearing absent filter", patch: QueryPatch{Filters: map[string]*string{"departmentId": strPtr("")}}, wantPage: 3},
		{name: "filter change wins over page", patch: QueryPatch{PageIndex: intPtr(7), Filters: map[string]*string{"search": strPtr("x")}}, wantPage: 0, wantReset: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, reset := base.Apply(tc.patch)
			assert.Equal(t, tc.wantPage, next.PageIndex)
			assert.Equal(t, tc.wantReset, reset)
		})
	}
}

func TestQueryStateApplyDoesNotAliasFilters(t *testing.T) {
	base := QueryState{PageSize: 10, Filters: map[string]string{"status": "ACTIVE"}}
	next, _ := base.Apply(QueryPatch{Filters: map[string]*string{"status": strPtr("INACTIVE")}})

	assert.Equal(t, "ACTIVE", base.Filters["status"])
	assert.Equal(t, "INACTIVE", next.Filter("status"))
}

func TestQueryStateApplyDropsEmptyFilterMap(t *testing.T) {
	base := QueryState{PageSize: 10, Filters: map[string]string{"search": "ann"}}
	next, reset := base.Apply(QueryPatch{Filters: map[string]*string{"search": nil}})

	require.True(t, reset)
	assert.Nil(t, next.Filters)
}

func TestQueryStateToURLValues(t *testing.T) {
	query := QueryState{PageIndex: 2, PageSize: 20, SortKey: "salary", SortDir: SortDesc, Filters: map[string]string{"departmentId": "4", "status": "ACTIVE"}}
	values := query.ToURLValues()

	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "20", values.Get("size"))
	assert.Equal(t, "salary", values.Get("sortBy"))
	assert.Equal(t, "desc", values.Get("sortDir"))
	assert.Equal(t, "4", values.Get("departmentId"))
	assert.Equal(t, "ACTIVE", values.Get("status"))
	_, hasSearch := values["search"]
	assert.False(t, hasSearch)
}

func TestQueryStateCanonicalKeyIsOrderIndependent(t *testing.T) {
	a := QueryState{PageSize: 10, Filters: map[string]string{"b": "2", "a": "1"}}
	b := QueryState{PageSize: 10, Filters: map[string]string{"a": "1", "b": "2"}}
	assert.Equal(t, a.CanonicalKey(), b.CanonicalKey())
	assert.NotEqual(t, a.CanonicalKey(), a.WithPage(1).CanonicalKey())
}

func TestQueryStateFiltersCannotShadowPagination(t *testing.T) {
	base := QueryState{PageIndex: 1, PageSize: 10, SortKey: "id", SortDir: SortAsc}
	next, reset := base.Apply(QueryPatch{Filters: map[string]*string{"page": strPtr("3"), "Size": strPtr("500")}})

	assert.False(t, reset)
	assert.Equal(t, 1, next.PageIndex)
	assert.Nil(t, next.Filters)

	values := QueryState{PageIndex: 1, PageSize: 10, Filters: map[string]string{"page": "3", "size": "500", "search": "ann"}}.ToURLValues()
	assert.Equal(t, "1", values.Get("page"))
	assert.Equal(t, "10", values.Get("size"))
	assert.Equal(t, "ann", values.Get("search"))
}
