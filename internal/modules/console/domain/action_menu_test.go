package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionMenuAtMostOneOpen(t *testing.T) {
	var menu ActionMenuState
	assert.False(t, menu.IsOpen())

	menu = menu.Toggle("1")
	assert.True(t, menu.IsOpenFor("1"))

	menu = menu.Toggle("2")
	assert.True(t, menu.IsOpenFor("2"))
	assert.False(t, menu.IsOpenFor("1"))

	menu = menu.Toggle("2")
	assert.False(t, menu.IsOpen())

	menu = menu.Open(" 3 ").Close()
	assert.False(t, menu.IsOpen())
}

func TestParseRowAction(t *testing.T) {
	cases := map[string]RowAction{
		"edit":          RowActionEdit,
		" Toggle ":      RowActionToggle,
		"toggle_status": RowActionToggle,
		"DELETE":        RowActionDelete,
	}
	for raw, want := range cases {
		got, ok := ParseRowAction(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseRowAction("view")
	assert.False(t, ok)
}

func TestFormDraftCloneIsDeep(t *testing.T) {
	draft := FormDraft{Mode: FormEditing, Target: "4", Fields: map[string]string{"name": "Finance"}, FieldErrors: map[string]string{"name": "x"}}
	clone := draft.Clone()
	clone.Fields["name"] = "Ops"
	clone.FieldErrors["name"] = "y"

	assert.Equal(t, "Finance", draft.Fields["name"])
	assert.Equal(t, "x", draft.FieldErrors["name"])
	assert.True(t, draft.Editable())
	assert.False(t, ClosedDraft().IsOpen())
	assert.False(t, FormDraft{Mode: FormCreating, Submitting: true}.Editable())
}
