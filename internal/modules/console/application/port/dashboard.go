package port

import (
	"context"

	"adminConsole/internal/modules/console/domain"
)

// DashboardFetcher retrieves the landing page statistics.
type DashboardFetcher interface {
	FetchStats(ctx context.Context) (domain.DashboardStats, error)
}

// DepartmentLookup lists every department for pickers and filters.
type DepartmentLookup interface {
	AllDepartments(ctx context.Context) ([]domain.Department, error)
}
