package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
)

var (
	// ErrIdentityBusy rejects a second mutation on a row that already has one in flight.
	ErrIdentityBusy = errors.New("another change to this record is in progress")
	// ErrNoConfirmation is returned when confirming or dismissing without a pending delete.
	ErrNoConfirmation = errors.New("no delete pending confirmation")
)

// ConsoleView is the entity-agnostic surface the transport drives.
type ConsoleView interface {
	ID() string
	Entity() string
	Mount(ctx context.Context) error
	Query() domain.QueryState
	SetQuery(ctx context.Context, patch domain.QueryPatch) error
	Refetch(ctx context.Context, pageIndex *int) error
	ToggleMenu(identity string)
	CloseMenu()
	SelectAction(ctx context.Context, identity string, action domain.RowAction) error
	OpenCreate() error
	SetFields(values map[string]string) error
	CancelForm() error
	SubmitForm(ctx context.Context) error
	ConfirmDelete(ctx context.Context) error
	DismissDelete() error
	State() any
	Schema() ViewSchema
	Sheet() port.Sheet
	Observe(fn func())
}

// ViewSchema describes the form fields and table columns of a view.
type ViewSchema struct {
	Entity     string             `json:"entity"`
	Singular   string             `json:"singular"`
	Fields     []domain.FieldSpec `json:"fields"`
	Columns    []domain.Column    `json:"columns"`
	FilterKeys []string           `json:"filterKeys"`
	SortKeys   []string           `json:"sortKeys"`
	Toggleable bool               `json:"toggleable"`
}

// ViewState is everything a browser needs to render a list view.
type ViewState[T domain.Entity] struct {
	ViewID        string                     `json:"viewId"`
	Entity        string                     `json:"entity"`
	Query         domain.QueryState          `json:"query"`
	Page          *domain.ResultPage[T]      `json:"page"`
	Loading       bool                       `json:"loading"`
	Failure       *domain.Failure            `json:"failure,omitempty"`
	Form          domain.FormDraft           `json:"form"`
	Menu          domain.ActionMenuState     `json:"menu"`
	Confirmation  *domain.DeleteConfirmation `json:"confirmation,omitempty"`
	Busy          []string                   `json:"busy,omitempty"`
	CanAdminister bool                       `json:"canAdminister"`
}

// View binds one list, its mutations, its form, its row menu and its delete
// confirmation for a single mounted list view.
type View[T domain.Entity] struct {
	id        string
	kind      *domain.Descriptor[T]
	client    port.ResourceClient[T]
	session   port.Session
	outcomes  port.OutcomeSink
	list      *ListController[T]
	mutations *MutationCoordinator[T]
	form      *FormLifecycle[T]

	mu        sync.Mutex
	menu      domain.ActionMenuState
	confirm   *domain.DeleteConfirmation
	busy      map[string]struct{}
	observers []func()
}

// NewView mounts a view for kind. Nothing is fetched until Mount.
func NewView[T domain.Entity](kind *domain.Descriptor[T], client port.ResourceClient[T], session port.Session, outcomes port.OutcomeSink, pageSize int) *View[T] {
	if outcomes == nil {
		outcomes = port.OutcomeSinkFunc(func(context.Context, domain.Outcome) {})
	}
	list := NewListController(kind, client, kind.InitialQuery(pageSize))
	mutations := NewMutationCoordinator(list, client, session, outcomes)
	view := &View[T]{
		id:        uuid.NewString(),
		kind:      kind,
		client:    client,
		session:   session,
		outcomes:  outcomes,
		list:      list,
		mutations: mutations,
		form:      NewFormLifecycle(kind, mutations),
		busy:      make(map[string]struct{}),
	}
	list.Observe(view.notify)
	view.form.Observe(view.notify)
	return view
}

func (v *View[T]) ID() string { return v.id }
func (v *View[T]) Entity() string { return v.kind.Name }

func (v *View[T]) List() *ListController[T] { return v.list }
func (v *View[T]) Mutations() *MutationCoordinator[T] { return v.mutations }
func (v *View[T]) Form() *FormLifecycle[T] { return v.form }

// Observe registers fn to be called after every state change.
func (v *View[T]) Observe(fn func()) {
	if fn == nil {
		return
	}
	v.mu.Lock()
	v.observers = append(v.observers, fn)
	v.mu.Unlock()
}

func (v *View[T]) Query() domain.QueryState { return v.list.Query() }

// Mount performs the initial fetch.
func (v *View[T]) Mount(ctx context.Context) error {
	return v.Refetch(ctx, nil)
}

// SetQuery changes the query and refetches. Superseded responses are not errors.
func (v *View[T]) SetQuery(ctx context.Context, patch domain.QueryPatch) error {
	_, err := v.list.SetQuery(ctx, patch)
	return v.listResult(ctx, err)
}

// Refetch reloads the current page, or pageIndex when given.
func (v *View[T]) Refetch(ctx context.Context, pageIndex *int) error {
	_, err := v.list.Refetch(ctx, pageIndex)
	return v.listResult(ctx, err)
}

func (v *View[T]) listResult(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, ErrStaleResponse) {
		return nil
	}
	v.outcomes.Report(ctx, domain.FailureOutcome(v.kind.Name, domain.ActionList, "", err, time.Now()))
	return err
}

// ToggleMenu opens the row menu for identity, or closes it when already open there.
func (v *View[T]) ToggleMenu(identity string) {
	v.mu.Lock()
	v.menu = v.menu.Toggle(identity)
	v.mu.Unlock()
	v.notify()
}

// CloseMenu handles outside clicks.
func (v *View[T]) CloseMenu() {
	v.mu.Lock()
	changed := v.menu.IsOpen()
	v.menu = v.menu.Close()
	v.mu.Unlock()
	if changed {
		v.notify()
	}
}

// SelectAction runs a row action. The menu is closed and observers notified
// before any request starts. Delete only opens the confirmation.
func (v *View[T]) SelectAction(ctx context.Context, identity string, action domain.RowAction) error {
	identity = strings.TrimSpace(identity)
	v.mu.Lock()
	v.menu = v.menu.Close()
	if action == domain.RowActionDelete {
		v.confirm = &domain.DeleteConfirmation{Target: identity, Label: v.rowLabel(identity)}
	}
	v.mu.Unlock()
	v.notify()

	if err := v.authorize(ctx, string(action), identity); err != nil {
		if action == domain.RowActionDelete {
			v.mu.Lock()
			v.confirm = nil
			v.mu.Unlock()
			v.notify()
		}
		return err
	}

	switch action {
	case domain.RowActionEdit:
		if v.isBusy(identity) {
			return ErrIdentityBusy
		}
		entity, ok := v.list.Find(identity)
		if !ok {
			fetched, err := v.client.Get(ctx, identity)
			if err != nil {
				failure := domain.AsFailure(v.kind.Name+".get", err)
				v.outcomes.Report(ctx, domain.FailureOutcome(v.kind.Name, domain.ActionUpdate, identity, failure, time.Now()))
				if failure.Kind == domain.FailureNotFound {
					_ = v.Refetch(ctx, nil)
				}
				return failure
			}
			entity = fetched
		}
		_, err := v.form.OpenEdit(entity)
		return err
	case domain.RowActionToggle:
		if !v.acquire(identity) {
			return ErrIdentityBusy
		}
		defer v.release(identity)
		_, err := v.mutations.ToggleStatus(ctx, identity)
		return err
	case domain.RowActionDelete:
		return nil
	default:
		return domain.NewFailure(domain.FailureValidation, v.kind.Name+".action", "unknown action "+string(action))
	}
}

func (v *View[T]) rowLabel(identity string) string {
	entity, ok := v.list.Find(identity)
	if !ok {
		return identity
	}
	values := v.kind.Values(entity)
	for _, key := range []string{"name", "username"} {
		if label := strings.TrimSpace(values[key]); label != "" {
			return label
		}
	}
	return identity
}

// OpenCreate opens a blank create draft.
func (v *View[T]) OpenCreate() error {
	if err := v.authorize(context.Background(), domain.ActionCreate, ""); err != nil {
		return err
	}
	v.CloseMenu()
	_, err := v.form.OpenCreate()
	return err
}

func (v *View[T]) SetFields(values map[string]string) error {
	return v.form.SetFields(values)
}

func (v *View[T]) CancelForm() error {
	return v.form.Cancel()
}

// SubmitForm submits the open draft. Edits hold the target identity for the
// duration of the request.
func (v *View[T]) SubmitForm(ctx context.Context) error {
	draft := v.form.Draft()
	if draft.Mode == domain.FormEditing && draft.Target != "" {
		if !v.acquire(draft.Target) {
			return ErrIdentityBusy
		}
		defer v.release(draft.Target)
	}
	_, err := v.form.Submit(ctx)
	return err
}

// ConfirmDelete executes the pending delete. On failure the confirmation
// stays open carrying the error until dismissed.
func (v *View[T]) ConfirmDelete(ctx context.Context) error {
	v.mu.Lock()
	if v.confirm == nil {
		v.mu.Unlock()
		return ErrNoConfirmation
	}
	if v.confirm.Deleting {
		v.mu.Unlock()
		return ErrIdentityBusy
	}
	target := v.confirm.Target
	if _, busy := v.busy[target]; busy {
		v.mu.Unlock()
		return ErrIdentityBusy
	}
	v.busy[target] = struct{}{}
	v.confirm.Deleting = true
	v.confirm.Error = ""
	v.mu.Unlock()
	v.notify()

	err := v.mutations.Delete(ctx, target)

	v.mu.Lock()
	delete(v.busy, target)
	if err == nil {
		v.confirm = nil
	} else if v.confirm != nil && v.confirm.Target == target {
		v.confirm.Deleting = false
		v.confirm.Error = domain.MessageOf(err)
	}
	v.mu.Unlock()
	v.notify()
	return err
}

// DismissDelete closes the confirmation dialog.
func (v *View[T]) DismissDelete() error {
	v.mu.Lock()
	if v.confirm == nil {
		v.mu.Unlock()
		return ErrNoConfirmation
	}
	if v.confirm.Deleting {
		v.mu.Unlock()
		return ErrIdentityBusy
	}
	v.confirm = nil
	v.mu.Unlock()
	v.notify()
	return nil
}

// Snapshot returns the typed view state.
func (v *View[T]) Snapshot() ViewState[T] {
	state := ViewState[T]{
		ViewID:        v.id,
		Entity:        v.kind.Name,
		Query:         v.list.Query(),
		Page:          v.list.CurrentPage(),
		Loading:       v.list.IsLoading(),
		Failure:       v.list.LastFailure(),
		Form:          v.form.Draft(),
		CanAdminister: v.canAdminister(),
	}
	v.mu.Lock()
	state.Menu = v.menu
	if v.confirm != nil {
		confirm := *v.confirm
		state.Confirmation = &confirm
	}
	for identity := range v.busy {
		state.Busy = append(state.Busy, identity)
	}
	v.mu.Unlock()
	sort.Strings(state.Busy)
	return state
}

func (v *View[T]) State() any {
	return v.Snapshot()
}

func (v *View[T]) Schema() ViewSchema {
	return ViewSchema{
		Entity:     v.kind.Name,
		Singular:   v.kind.Singular,
		Fields:     v.kind.Fields,
		Columns:    v.kind.Columns,
		FilterKeys: v.kind.FilterKeys,
		SortKeys:   v.kind.SortKeys,
		Toggleable: v.kind.Toggle != nil,
	}
}

// Sheet renders the current page against the kind's columns.
func (v *View[T]) Sheet() port.Sheet {
	sheet := port.Sheet{Name: v.kind.Name}
	for _, column := range v.kind.Columns {
		sheet.Headers = append(sheet.Headers, column.Label)
	}
	if page := v.list.CurrentPage(); page != nil {
		for _, item := range page.Items {
			sheet.Rows = append(sheet.Rows, v.kind.Row(item))
		}
	}
	return sheet
}

func (v *View[T]) canAdminister() bool {
	return v.session == nil || v.session.HasPrivilege(port.CapabilityAdminister)
}

func (v *View[T]) authorize(ctx context.Context, action, identity string) error {
	if v.canAdminister() {
		return nil
	}
	failure := domain.NewFailure(domain.FailureAuthorization, v.kind.Name+"."+action, "Only administrators can change "+v.kind.Name)
	v.outcomes.Report(ctx, domain.FailureOutcome(v.kind.Name, action, identity, failure, time.Now()))
	return failure
}

func (v *View[T]) acquire(identity string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, busy := v.busy[identity]; busy {
		return false
	}
	v.busy[identity] = struct{}{}
	return true
}

func (v *View[T]) release(identity string) {
	v.mu.Lock()
	delete(v.busy, identity)
	v.mu.Unlock()
}

func (v *View[T]) isBusy(identity string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, busy := v.busy[identity]
	return busy
}

func (v *View[T]) notify() {
	v.mu.Lock()
	observers := append([]func(){}, v.observers...)
	v.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

var (
	_ ConsoleView = (*View[domain.Employee])(nil)
	_ ConsoleView = (*View[domain.Department])(nil)
	_ ConsoleView = (*View[domain.User])(nil)
)
