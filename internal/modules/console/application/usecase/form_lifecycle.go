package usecase

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"

	"adminConsole/internal/modules/console/domain"
)

var (
	// ErrFormBusy is returned while a submission is in flight.
	ErrFormBusy = errors.New("form is submitting")
	// ErrFormClosed is returned for edits or submits without an open form.
	ErrFormClosed = errors.New("form is closed")
)

// FormLifecycle governs the single create/edit modal of a list view.
//
//	Closed -> Creating|Editing(id) -> Submitting -> Closed (success)
//	                                             -> Creating|Editing (rejected)
type FormLifecycle[T domain.Entity] struct {
	kind      *domain.Descriptor[T]
	mutations *MutationCoordinator[T]

	mu        sync.Mutex
	draft     domain.FormDraft
	observers []func()
}

func NewFormLifecycle[T domain.Entity](kind *domain.Descriptor[T], mutations *MutationCoordinator[T]) *FormLifecycle[T] {
	return &FormLifecycle[T]{
		kind:      kind,
		mutations: mutations,
		draft:     domain.ClosedDraft(),
	}
}

// Observe registers fn to be called after every draft change.
func (f *FormLifecycle[T]) Observe(fn func()) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// Draft returns a copy of the current draft.
func (f *FormLifecycle[T]) Draft() domain.FormDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// OpenCreate starts a blank create draft. An open, idle draft is discarded.
func (f *FormLifecycle[T]) OpenCreate() (domain.FormDraft, error) {
	return f.open(domain.FormDraft{
		Mode:   domain.FormCreating,
		Fields: f.kind.BlankFields(),
	})
}

// OpenEdit starts an edit draft pre-populated from a snapshot of entity.
// Editing the draft never touches the list's stored copy.
func (f *FormLifecycle[T]) OpenEdit(entity T) (domain.FormDraft, error) {
	return f.open(domain.FormDraft{
		Mode:   domain.FormEditing,
		Target: entity.Identity(),
		Fields: f.kind.SnapshotFields(entity),
	})
}

func (f *FormLifecycle[T]) open(draft domain.FormDraft) (domain.FormDraft, error) {
	f.mu.Lock()
	if f.draft.Submitting {
		f.mu.Unlock()
		return domain.FormDraft{}, ErrFormBusy
	}
	f.draft = draft
	out := f.draft.Clone()
	f.mu.Unlock()
	f.notify()
	return out, nil
}

// SetField updates one draft field and clears its error.
func (f *FormLifecycle[T]) SetField(name, value string) error {
	return f.SetFields(map[string]string{name: value})
}

// SetFields updates several draft fields at once. Unknown names are ignored.
func (f *FormLifecycle[T]) SetFields(values map[string]string) error {
	f.mu.Lock()
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.draft.Fields == nil {
		f.draft.Fields = map[string]string{}
	}
	for name, value := range values {
		name = strings.TrimSpace(name)
		if _, ok := f.kind.Field(name); !ok {
			continue
		}
		f.draft.Fields[name] = value
		delete(f.draft.FieldErrors, name)
	}
	f.mu.Unlock()
	f.notify()
	return nil
}

// Cancel discards the draft. Not allowed while submitting.
func (f *FormLifecycle[T]) Cancel() error {
	f.mu.Lock()
	if f.draft.Submitting {
		f.mu.Unlock()
		return ErrFormBusy
	}
	f.draft = domain.ClosedDraft()
	f.mu.Unlock()
	f.notify()
	return nil
}

// Submit validates the draft locally and, when it passes, sends it through
// the coordinator. Local validation failures never reach the network. A
// server rejection reopens the draft with its fields preserved.
func (f *FormLifecycle[T]) Submit(ctx context.Context) (domain.FormDraft, error) {
	f.mu.Lock()
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return domain.FormDraft{}, err
	}
	if fieldErrors := f.kind.Validate(f.draft.Mode, f.draft.Fields); len(fieldErrors) > 0 {
		f.draft.FieldErrors = fieldErrors
		f.draft.TopLevelError = ""
		out := f.draft.Clone()
		f.mu.Unlock()
		f.notify()
		return out, domain.InvalidFields(f.kind.Name+".submit", maps.Clone(fieldErrors))
	}
	f.draft.Submitting = true
	f.draft.FieldErrors = nil
	f.draft.TopLevelError = ""
	mode := f.draft.Mode
	target := f.draft.Target
	fields := maps.Clone(f.draft.Fields)
	f.mu.Unlock()
	f.notify()

	var err error
	if mode == domain.FormEditing {
		_, err = f.mutations.Update(ctx, target, fields)
	} else {
		_, err = f.mutations.Create(ctx, fields)
	}

	f.mu.Lock()
	if err == nil {
		f.draft = domain.ClosedDraft()
	} else {
		failure := domain.AsFailure(f.kind.Name+".submit", err)
		f.draft.Submitting = false
		f.draft.TopLevelError = failure.Message
		if len(failure.FieldErrors) > 0 {
			f.draft.FieldErrors = maps.Clone(failure.FieldErrors)
		}
		err = failure
	}
	out := f.draft.Clone()
	f.mu.Unlock()
	f.notify()
	return out, err
}

func (f *FormLifecycle[T]) editableLocked() error {
	if !f.draft.IsOpen() {
		return ErrFormClosed
	}
	if f.draft.Submitting {
		return ErrFormBusy
	}
	return nil
}

func (f *FormLifecycle[T]) notify() {
	f.mu.Lock()
	observers := append([]func(){}, f.observers...)
	f.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}
