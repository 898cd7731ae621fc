package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
)

// DashboardUseCase loads the landing page: headline stats and the department
// lookup, fetched concurrently.
type DashboardUseCase struct {
	stats       func(token string) port.DashboardFetcher
	departments func(token string) port.DepartmentLookup
}

func NewDashboardUseCase(stats func(token string) port.DashboardFetcher, departments func(token string) port.DepartmentLookup) *DashboardUseCase {
	return &DashboardUseCase{stats: stats, departments: departments}
}

// Load returns the first failure of either fetch.
func (uc *DashboardUseCase) Load(ctx context.Context, token string) (*domain.Dashboard, error) {
	var (
		stats       domain.DashboardStats
		departments []domain.Department
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fetched, err := uc.stats(token).FetchStats(groupCtx)
		if err != nil {
			return err
		}
		stats = fetched
		return nil
	})
	group.Go(func() error {
		fetched, err := uc.departments(token).AllDepartments(groupCtx)
		if err != nil {
			return err
		}
		departments = fetched
		return nil
	})
	if err := group.Wait(); err != nil {
		failure := domain.AsFailure("dashboard.load", err)
		slog.Warn("dashboard load failed", slog.String("kind", string(failure.Kind)), slog.Any("error", err))
		return nil, failure
	}
	return &domain.Dashboard{
		Stats:       stats,
		Departments: domain.DepartmentOptions(departments),
	}, nil
}

// LookupDepartments lists department picker options.
func (uc *DashboardUseCase) LookupDepartments(ctx context.Context, token string) ([]domain.DepartmentOption, error) {
	departments, err := uc.departments(token).AllDepartments(ctx)
	if err != nil {
		return nil, domain.AsFailure("departments.lookup", err)
	}
	return domain.DepartmentOptions(departments), nil
}
