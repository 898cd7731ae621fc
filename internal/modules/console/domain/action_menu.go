package domain

import "strings"

// ActionMenuState tracks the single open row menu of a list. The zero value
// is closed.
type ActionMenuState struct {
	OpenFor string `json:"openFor,omitempty"`
}

// Open moves the menu to identity. Any other open menu is replaced in the
// same step.
func (m ActionMenuState) Open(identity string) ActionMenuState {
	return ActionMenuState{OpenFor: strings.TrimSpace(identity)}
}

// Toggle opens the menu for identity, or closes it if it is already open there.
func (m ActionMenuState) Toggle(identity string) ActionMenuState {
	trimmed := strings.TrimSpace(identity)
	if m.OpenFor == trimmed {
		return ActionMenuState{}
	}
	return ActionMenuState{OpenFor: trimmed}
}

func (m ActionMenuState) Close() ActionMenuState {
	return ActionMenuState{}
}

func (m ActionMenuState) IsOpen() bool {
	return m.OpenFor != ""
}

func (m ActionMenuState) IsOpenFor(identity string) bool {
	return m.OpenFor != "" && m.OpenFor == strings.TrimSpace(identity)
}

// DeleteConfirmation is the pending delete dialog. A failed delete keeps it
// open with Error set until it is dismissed.
type DeleteConfirmation struct {
	Target   string `json:"target"`
	Label    string `json:"label,omitempty"`
	Deleting bool   `json:"deleting"`
	Error    string `json:"error,omitempty"`
}

// RowAction names the actions a row menu offers.
type RowAction string

const (
	RowActionEdit   RowAction = "edit"
	RowActionToggle RowAction = "toggle"
	RowActionDelete RowAction = "delete"
)

// ParseRowAction normalizes a client supplied action name.
func ParseRowAction(raw string) (RowAction, bool) {
	switch RowAction(strings.ToLower(strings.TrimSpace(raw))) {
	case RowActionEdit:
		return RowActionEdit, true
	case RowActionToggle, "toggle_status", "status":
		return RowActionToggle, true
	case RowActionDelete:
		return RowActionDelete, true
	default:
		return "", false
	}
}
