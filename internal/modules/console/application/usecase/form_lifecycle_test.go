package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminConsole/internal/modules/console/domain"
)

func newUserForm(t *testing.T, client *memClient[domain.User]) *FormLifecycle[domain.User] {
	t.Helper()
	lc := NewListController(domain.UserKind, client, domain.UserKind.InitialQuery(10))
	mc := NewMutationCoordinator(lc, client, fakeSession{admin: true}, &recordingSink{})
	return NewFormLifecycle(domain.UserKind, mc)
}

func TestSubmitWithLocalErrorsSendsNothing(t *testing.T) {
	client := newUserClient()
	form := newUserForm(t, client)

	draft, err := form.OpenCreate()
	require.NoError(t, err)
	assert.Equal(t, "USER", draft.Fields["role"])

	draft, err = form.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, client.createCalls)
	assert.Equal(t, domain.FormCreating, draft.Mode)
	assert.False(t, draft.Submitting)
	assert.Equal(t, "Username is required", draft.FieldErrors["username"])
	assert.Equal(t, "Password is required", draft.FieldErrors["password"])

	require.NoError(t, form.SetField("username", "jdoe"))
	assert.NotContains(t, form.Draft().FieldErrors, "username")
	assert.Contains(t, form.Draft().FieldErrors, "password")
}

func TestSubmitSuccessClosesForm(t *testing.T) {
	client := newUserClient()
	form := newUserForm(t, client)

	_, err := form.OpenCreate()
	require.NoError(t, err)
	require.NoError(t, form.SetFields(map[string]string{
		"username": "jdoe",
		"email":    "jdoe@example.com",
		"password": "secret1",
		"unknown":  "ignored",
	}))

	draft, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, draft.IsOpen())
	assert.Equal(t, 1, client.createCalls)
	require.Len(t, client.items, 1)
	assert.Equal(t, "jdoe", client.items[0].Username)
	assert.True(t, client.items[0].Enabled)
}

func TestServerRejectionKeepsDraft(t *testing.T) {
	client := newUserClient()
	client.createErr = domain.FailureFromStatus("users.create", http.StatusConflict, "Username already exists")
	form := newUserForm(t, client)

	_, err := form.OpenCreate()
	require.NoError(t, err)
	require.NoError(t, form.SetFields(map[string]string{"username": "jdoe", "email": "jdoe@example.com", "password": "secret1"}))

	draft, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.FormCreating, draft.Mode)
	assert.False(t, draft.Submitting)
	assert.Equal(t, "Username already exists", draft.TopLevelError)
	assert.Equal(t, "jdoe", draft.Fields["username"])
}

func TestEditDraftDoesNotTouchStoredEntity(t *testing.T) {
	stored := domain.User{ID: "5", Username: "jdoe", Email: "jdoe@example.com", Role: domain.UserRoleUser, Enabled: true}
	client := newUserClient(stored)
	form := newUserForm(t, client)

	draft, err := form.OpenEdit(stored)
	require.NoError(t, err)
	assert.Equal(t, "5", draft.Target)
	assert.Equal(t, "", draft.Fields["password"])

	require.NoError(t, form.SetField("username", "renamed"))
	assert.Equal(t, "jdoe", client.items[0].Username)

	draft, err = form.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, draft.IsOpen())
	assert.Equal(t, "renamed", client.items[0].Username)
}

func TestFormRejectsEditsWhenClosed(t *testing.T) {
	form := newUserForm(t, newUserClient())

	assert.ErrorIs(t, form.SetField("username", "x"), ErrFormClosed)
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrFormClosed)
	assert.NoError(t, form.Cancel())
}
