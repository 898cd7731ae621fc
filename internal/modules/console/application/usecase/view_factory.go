package usecase

import (
	"context"
	"errors"
	"log/slog"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/shared/normalization"
)

// ErrUnsupportedEntity is returned for entities without a list view.
var ErrUnsupportedEntity = errors.New("entity has no console view")

// ClientSource builds a resource client bound to a bearer token.
type ClientSource[T domain.Entity] func(token string) port.ResourceClient[T]

// ViewFactory mounts list views for the supported entity kinds.
type ViewFactory struct {
	employees   ClientSource[domain.Employee]
	departments ClientSource[domain.Department]
	users       ClientSource[domain.User]
	reporter    *OutcomeReporter
	pageSize    int
}

func NewViewFactory(
	employees ClientSource[domain.Employee],
	departments ClientSource[domain.Department],
	users ClientSource[domain.User],
	reporter *OutcomeReporter,
	pageSize int,
) *ViewFactory {
	return &ViewFactory{
		employees:   employees,
		departments: departments,
		users:       users,
		reporter:    reporter,
		pageSize:    pageSize,
	}
}

// Open mounts a view for entity. Outcomes go to local (the connection) and
// to the shared reporter scoped to the session's user.
func (f *ViewFactory) Open(entity string, session port.Session, local port.OutcomeSink) (ConsoleView, error) {
	token := ""
	actor := ""
	if session != nil {
		token = session.Token()
		if user := session.CurrentUser(); user != nil {
			actor = user.Identity
		}
	}
	sinks := []port.OutcomeSink{local}
	if f.reporter != nil {
		sinks = append(sinks, f.reporter.ForActor(actor))
	}
	outcomes := FanOut(sinks...)

	switch normalization.NormalizeEntity(entity) {
	case domain.EmployeeKind.Name:
		return NewView(domain.EmployeeKind, f.employees(token), session, outcomes, f.pageSize), nil
	case domain.DepartmentKind.Name:
		return NewView(domain.DepartmentKind, f.departments(token), session, outcomes, f.pageSize), nil
	case domain.UserKind.Name:
		return NewView(domain.UserKind, f.users(token), session, outcomes, f.pageSize), nil
	default:
		slog.Warn("console view entity unsupported", slog.String("entity", entity))
		return nil, ErrUnsupportedEntity
	}
}

// FanOut reports every outcome to each non-nil sink in order.
func FanOut(sinks ...port.OutcomeSink) port.OutcomeSink {
	active := make([]port.OutcomeSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			active = append(active, sink)
		}
	}
	return port.OutcomeSinkFunc(func(ctx context.Context, outcome domain.Outcome) {
		for _, sink := range active {
			sink.Report(ctx, outcome)
		}
	})
}
