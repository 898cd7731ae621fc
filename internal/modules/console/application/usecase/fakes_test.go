package usecase

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/shared/normalization"
)

// memClient is an in-memory records API for one kind.
type memClient[T domain.Entity] struct {
	mu        sync.Mutex
	items     []T
	nextID    int
	build     func(id string, payload map[string]any) T
	patch     func(item T, field string, value any) T
	listErr   error
	createErr error
	updateErr error
	deleteErr map[string]error
	onPatch   func()

	queries     []domain.QueryState
	createCalls int
	patchCalls  int
}

func (c *memClient[T]) List(_ context.Context, query domain.QueryState) (*domain.ResultPage[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	if c.listErr != nil {
		return nil, c.listErr
	}
	total := len(c.items)
	start := min(query.PageIndex*query.PageSize, total)
	end := min(start+query.PageSize, total)
	return &domain.ResultPage[T]{
		Items:      append([]T(nil), c.items[start:end]...),
		PageIndex:  query.PageIndex,
		PageSize:   query.PageSize,
		TotalItems: total,
		TotalPages: domain.TotalPagesFor(total, query.PageSize),
	}, nil
}

func (c *memClient[T]) Get(_ context.Context, identity string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(identity); i >= 0 {
		return c.items[i], nil
	}
	var zero T
	return zero, domain.FailureFromStatus("get", http.StatusNotFound, "")
}

func (c *memClient[T]) Create(_ context.Context, payload map[string]any) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createCalls++
	var zero T
	if c.createErr != nil {
		return zero, c.createErr
	}
	c.nextID++
	item := c.build(strconv.Itoa(c.nextID), payload)
	c.items = append([]T{item}, c.items...)
	return item, nil
}

func (c *memClient[T]) Update(_ context.Context, identity string, payload map[string]any) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if c.updateErr != nil {
		return zero, c.updateErr
	}
	i := c.indexLocked(identity)
	if i < 0 {
		return zero, domain.FailureFromStatus("update", http.StatusNotFound, "")
	}
	c.items[i] = c.build(identity, payload)
	return c.items[i], nil
}

func (c *memClient[T]) Delete(_ context.Context, identity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.deleteErr[identity]; err != nil {
		return err
	}
	i := c.indexLocked(identity)
	if i < 0 {
		return domain.FailureFromStatus("delete", http.StatusNotFound, "")
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *memClient[T]) PatchField(_ context.Context, identity, field string, value any) (T, error) {
	if c.onPatch != nil {
		c.onPatch()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patchCalls++
	var zero T
	i := c.indexLocked(identity)
	if i < 0 {
		return zero, domain.FailureFromStatus("patch", http.StatusNotFound, "")
	}
	c.items[i] = c.patch(c.items[i], field, value)
	return c.items[i], nil
}

func (c *memClient[T]) indexLocked(identity string) int {
	for i, item := range c.items {
		if item.Identity() == identity {
			return i
		}
	}
	return -1
}

func (c *memClient[T]) listCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

func (c *memClient[T]) lastQuery() domain.QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries[len(c.queries)-1]
}

func newDepartmentClient(count int) *memClient[domain.Department] {
	client := &memClient[domain.Department]{
		build: func(id string, payload map[string]any) domain.Department {
			return domain.Department{ID: id, Name: normalization.AsString(payload["name"]), Description: normalization.AsString(payload["description"])}
		},
	}
	for i := 1; i <= count; i++ {
		client.items = append(client.items, domain.Department{ID: strconv.Itoa(i), Name: "Dept " + strconv.Itoa(i)})
	}
	client.nextID = count
	return client
}

func newUserClient(users ...domain.User) *memClient[domain.User] {
	return &memClient[domain.User]{
		items:  users,
		nextID: 100,
		build: func(id string, payload map[string]any) domain.User {
			enabled, _ := payload["enabled"].(bool)
			return domain.User{
				ID:       id,
				Username: normalization.AsString(payload["username"]),
				Email:    normalization.AsString(payload["email"]),
				Role:     domain.NormalizeUserRole(payload["role"]),
				Enabled:  enabled,
			}
		},
		patch: func(u domain.User, field string, value any) domain.User {
			if field == "enabled" {
				u.Enabled, _ = value.(bool)
			}
			return u
		},
	}
}

func newEmployeeClient(employees ...domain.Employee) *memClient[domain.Employee] {
	return &memClient[domain.Employee]{
		items:  employees,
		nextID: 900,
		build: func(id string, payload map[string]any) domain.Employee {
			return domain.Employee{
				ID:           id,
				EmployeeCode: normalization.AsString(payload["employeeId"]),
				FirstName:    normalization.AsString(payload["firstName"]),
				LastName:     normalization.AsString(payload["lastName"]),
				Email:        normalization.AsString(payload["email"]),
				Status:       domain.NormalizeEmployeeStatus(payload["status"]),
			}
		},
		patch: func(e domain.Employee, field string, value any) domain.Employee {
			if field == "status" {
				e.Status = domain.NormalizeEmployeeStatus(value)
			}
			return e
		},
	}
}

type recordingSink struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
}

func (s *recordingSink) Report(_ context.Context, outcome domain.Outcome) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, outcome)
	s.mu.Unlock()
}

func (s *recordingSink) all() []domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Outcome(nil), s.outcomes...)
}

func (s *recordingSink) last() domain.Outcome {
	all := s.all()
	if len(all) == 0 {
		return domain.Outcome{}
	}
	return all[len(all)-1]
}

type fakeSession struct {
	admin bool
}

func (s fakeSession) CurrentUser() *port.SessionUser {
	return &port.SessionUser{Identity: "7", DisplayName: "Operator", Role: "USER"}
}

func (s fakeSession) HasPrivilege(port.Capability) bool { return s.admin }

func (s fakeSession) Token() string { return "token" }
