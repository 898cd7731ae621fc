package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultPageCheck(t *testing.T) {
	page := &ResultPage[Department]{Items: []Department{{ID: "1"}, {ID: "2"}}, PageSize: 1}
	assert.Error(t, page.Check())

	page.PageSize = 0
	assert.Error(t, page.Check())

	page.PageSize = 10
	assert.NoError(t, page.Check())

	var missing *ResultPage[Department]
	assert.Error(t, missing.Check())
}

func TestResultPageOutOfRange(t *testing.T) {
	page := &ResultPage[Department]{PageIndex: 3, PageSize: 10, TotalItems: 25, TotalPages: 3}
	assert.True(t, page.OutOfRange())
	assert.Equal(t, 2, page.LastPageIndex())

	page.PageIndex = 2
	assert.False(t, page.OutOfRange())

	empty := &ResultPage[Department]{PageIndex: 4, PageSize: 10}
	assert.False(t, empty.OutOfRange())
	assert.Equal(t, 0, empty.LastPageIndex())
}

func TestResultPageFindAndClone(t *testing.T) {
	page := &ResultPage[Department]{Items: []Department{{ID: "1", Name: "Finance"}}, PageSize: 10}

	found, ok := page.Find("1")
	assert.True(t, ok)
	assert.Equal(t, "Finance", found.Name)
	_, ok = page.Find("")
	assert.False(t, ok)

	clone := page.Clone()
	clone.Items[0].Name = "Ops"
	assert.Equal(t, "Finance", page.Items[0].Name)
}

func TestTotalPagesFor(t *testing.T) {
	assert.Equal(t, 3, TotalPagesFor(25, 10))
	assert.Equal(t, 1, TotalPagesFor(10, 10))
	assert.Equal(t, 0, TotalPagesFor(0, 10))
}
