package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminConsole/internal/modules/console/domain"
)

const departmentConflict = "Cannot delete department with existing employees. Reassign employees first."

func newDepartmentMutations(t *testing.T, client *memClient[domain.Department], session *fakeSession) (*MutationCoordinator[domain.Department], *ListController[domain.Department], *recordingSink) {
	t.Helper()
	lc := NewListController(domain.DepartmentKind, client, domain.DepartmentKind.InitialQuery(10))
	_, err := lc.Refetch(context.Background(), nil)
	require.NoError(t, err)
	sink := &recordingSink{}
	if session == nil {
		return NewMutationCoordinator(lc, client, nil, sink), lc, sink
	}
	return NewMutationCoordinator(lc, client, *session, sink), lc, sink
}

func TestCreateReportsAndReloadsFirstPage(t *testing.T) {
	client := newDepartmentClient(15)
	mc, lc, sink := newDepartmentMutations(t, client, nil)
	page := 1
	_, err := lc.Refetch(context.Background(), &page)
	require.NoError(t, err)

	created, err := mc.Create(context.Background(), map[string]string{"name": "Research", "description": ""})
	require.NoError(t, err)
	assert.Equal(t, "16", created.ID)

	outcome := sink.last()
	assert.Equal(t, domain.OutcomeSuccess, outcome.Level)
	assert.Equal(t, "Department added successfully!", outcome.Message)
	assert.Equal(t, "16", outcome.Identity)

	assert.Equal(t, 0, lc.CurrentPageIndex())
	current, ok := lc.Find("16")
	require.True(t, ok)
	assert.Equal(t, "Research", current.Name)
}

func TestDeleteRemovesRecord(t *testing.T) {
	client := newDepartmentClient(3)
	mc, lc, sink := newDepartmentMutations(t, client, nil)

	require.NoError(t, mc.Delete(context.Background(), "2"))

	_, ok := lc.Find("2")
	assert.False(t, ok)
	assert.Equal(t, 2, lc.CurrentPage().TotalItems)
	assert.Equal(t, "Department deleted", sink.last().Message)
}

func TestDeleteConflictSurfacesServerMessage(t *testing.T) {
	client := newDepartmentClient(3)
	client.deleteErr = map[string]error{"1": domain.FailureFromStatus("departments.delete", http.StatusConflict, departmentConflict)}
	mc, lc, sink := newDepartmentMutations(t, client, nil)

	err := mc.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, departmentConflict, domain.MessageOf(err))

	outcome := sink.last()
	assert.Equal(t, domain.OutcomeError, outcome.Level)
	assert.Equal(t, domain.FailureConflict, outcome.Kind)
	assert.Equal(t, departmentConflict, outcome.Message)

	_, ok := lc.Find("1")
	assert.True(t, ok)
	assert.Len(t, client.items, 3)
}

func TestUpdateNotFoundRefetchesCurrentPage(t *testing.T) {
	client := newDepartmentClient(2)
	mc, lc, _ := newDepartmentMutations(t, client, nil)
	client.items = client.items[1:]
	calls := client.listCount()

	_, err := mc.Update(context.Background(), "1", map[string]string{"name": "Finance"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, calls+1, client.listCount())
	_, ok := lc.Find("1")
	assert.False(t, ok)
}

func TestUpdateReloadsCurrentPage(t *testing.T) {
	client := newDepartmentClient(15)
	mc, lc, sink := newDepartmentMutations(t, client, nil)
	page := 1
	_, err := lc.Refetch(context.Background(), &page)
	require.NoError(t, err)

	_, err = mc.Update(context.Background(), "12", map[string]string{"name": "Legal"})
	require.NoError(t, err)

	assert.Equal(t, 1, client.lastQuery().PageIndex)
	updated, ok := lc.Find("12")
	require.True(t, ok)
	assert.Equal(t, "Legal", updated.Name)
	assert.Equal(t, "Department updated successfully!", sink.last().Message)
}

func TestToggleTwiceRestoresStatus(t *testing.T) {
	client := newUserClient(domain.User{ID: "5", Username: "jdoe", Role: domain.UserRoleUser, Enabled: true})
	lc := NewListController(domain.UserKind, client, domain.UserKind.InitialQuery(10))
	_, err := lc.Refetch(context.Background(), nil)
	require.NoError(t, err)
	sink := &recordingSink{}
	mc := NewMutationCoordinator(lc, client, fakeSession{admin: true}, sink)

	toggled, err := mc.ToggleStatus(context.Background(), "5")
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)
	assert.Equal(t, "Status changed to DISABLED", sink.last().Message)

	toggled, err = mc.ToggleStatus(context.Background(), "5")
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)
	assert.Equal(t, "Status changed to ENABLED", sink.last().Message)

	current, ok := lc.Find("5")
	require.True(t, ok)
	assert.True(t, current.Enabled)
	assert.Equal(t, 2, client.patchCalls)
}

func TestDepartmentsHaveNoToggle(t *testing.T) {
	client := newDepartmentClient(1)
	mc, _, sink := newDepartmentMutations(t, client, nil)

	_, err := mc.ToggleStatus(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.OutcomeError, sink.last().Level)
}

func TestMutationsRequireAdministrator(t *testing.T) {
	client := newDepartmentClient(1)
	mc, _, sink := newDepartmentMutations(t, client, &fakeSession{admin: false})

	_, err := mc.Create(context.Background(), map[string]string{"name": "Research"})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	assert.ErrorIs(t, mc.Delete(context.Background(), "1"), domain.ErrAuthorization)
	assert.Equal(t, 0, client.createCalls)
	assert.Len(t, client.items, 1)
	assert.Equal(t, domain.FailureAuthorization, sink.last().Kind)
}

func TestReloadFailureDoesNotFailMutation(t *testing.T) {
	client := newDepartmentClient(1)
	mc, _, sink := newDepartmentMutations(t, client, nil)
	client.listErr = domain.FailureFromStatus("departments.list", http.StatusInternalServerError, "")

	_, err := mc.Create(context.Background(), map[string]string{"name": "Research"})
	require.NoError(t, err)

	outcomes := sink.all()
	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.ActionCreate, outcomes[0].Action)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Level)
	assert.Equal(t, domain.ActionList, outcomes[1].Action)
	assert.Equal(t, domain.OutcomeError, outcomes[1].Level)
}

func newEmployeeMutations(t *testing.T, client *memClient[domain.Employee]) (*MutationCoordinator[domain.Employee], *ListController[domain.Employee], *recordingSink) {
	t.Helper()
	lc := NewListController(domain.EmployeeKind, client, domain.EmployeeKind.InitialQuery(10))
	_, err := lc.Refetch(context.Background(), nil)
	require.NoError(t, err)
	sink := &recordingSink{}
	return NewMutationCoordinator(lc, client, fakeSession{admin: true}, sink), lc, sink
}

func TestCreatedEmployeeAppearsOnFirstPage(t *testing.T) {
	client := newEmployeeClient(domain.Employee{ID: "1", EmployeeCode: "EMP001", FirstName: "Luis", Status: domain.EmployeeStatusActive})
	mc, lc, _ := newEmployeeMutations(t, client)

	created, err := mc.Create(context.Background(), map[string]string{
		"employeeId": "EMP900",
		"firstName":  "Ana",
		"lastName":   "Lopez",
		"email":      "ana.lopez@example.com",
		"status":     "ACTIVE",
	})
	require.NoError(t, err)

	page, err := client.List(context.Background(), domain.EmployeeKind.InitialQuery(10))
	require.NoError(t, err)
	codes := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		codes = append(codes, item.EmployeeCode)
	}
	assert.Contains(t, codes, "EMP900")

	shown, ok := lc.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "EMP900", shown.EmployeeCode)
	assert.Equal(t, 0, lc.CurrentPageIndex())
}

func TestEmployeeToggleTwiceRestoresStatus(t *testing.T) {
	client := newEmployeeClient(domain.Employee{ID: "3", EmployeeCode: "EMP003", Status: domain.EmployeeStatusActive})
	mc, lc, sink := newEmployeeMutations(t, client)

	toggled, err := mc.ToggleStatus(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusInactive, toggled.Status)
	assert.Equal(t, "Status changed to INACTIVE", sink.last().Message)

	toggled, err = mc.ToggleStatus(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusActive, toggled.Status)

	current, ok := lc.Find("3")
	require.True(t, ok)
	assert.Equal(t, domain.EmployeeStatusActive, current.Status)
}
