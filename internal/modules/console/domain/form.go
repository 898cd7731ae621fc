package domain

import "maps"

// FormMode is the state of a create/edit modal.
type FormMode string

const (
	FormClosed   FormMode = "closed"
	FormCreating FormMode = "creating"
	FormEditing  FormMode = "editing"
)

// FormDraft is the in-progress state of a create/edit modal. Target is only
// set while editing. A draft is Submitting between a passed local validation
// and the server's answer; Mode stays Creating/Editing during that window.
type FormDraft struct {
	Mode          FormMode          `json:"mode"`
	Target        string            `json:"target,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	FieldErrors   map[string]string `json:"fieldErrors,omitempty"`
	Submitting    bool              `json:"submitting"`
	TopLevelError string            `json:"topLevelError,omitempty"`
}

// ClosedDraft is the initial and terminal draft.
func ClosedDraft() FormDraft {
	return FormDraft{Mode: FormClosed}
}

// IsOpen reports whether a modal is shown.
func (d FormDraft) IsOpen() bool {
	return d.Mode == FormCreating || d.Mode == FormEditing
}

// Editable reports whether fields may change and the draft may be submitted or cancelled.
func (d FormDraft) Editable() bool {
	return d.IsOpen() && !d.Submitting
}

// Clone returns a deep copy safe to hand to another goroutine.
func (d FormDraft) Clone() FormDraft {
	out := d
	out.Fields = maps.Clone(d.Fields)
	out.FieldErrors = maps.Clone(d.FieldErrors)
	return out
}
