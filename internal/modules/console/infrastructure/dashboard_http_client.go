package infrastructure

import (
	"context"
	"net/http"
	"strings"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/shared/normalization"
)

const dashboardStatsPath = "/employees/dashboard/stats"

// DashboardHTTPClient fetches the landing page stats and the department lookup.
type DashboardHTTPClient struct {
	rest        *RESTClient
	token       string
	departments *ResourceHTTPClient[domain.Department]
}

func NewDashboardHTTPClient(rest *RESTClient) *DashboardHTTPClient {
	departments, _ := NewResourceHTTPClient(rest, domain.DepartmentKind)
	return &DashboardHTTPClient{rest: rest, departments: departments}
}

// WithToken returns a copy that authenticates as the bearer of token.
func (c *DashboardHTTPClient) WithToken(token string) *DashboardHTTPClient {
	token = strings.TrimSpace(token)
	return &DashboardHTTPClient{rest: c.rest, token: token, departments: c.departments.WithToken(token)}
}

func (c *DashboardHTTPClient) FetchStats(ctx context.Context) (domain.DashboardStats, error) {
	data, err := c.rest.exchange(ctx, restCall{
		entity: domain.ActionDashboard,
		action: "stats",
		method: http.MethodGet,
		path:   dashboardStatsPath,
		token:  c.token,
	})
	if err != nil {
		return domain.DashboardStats{}, err
	}
	record := normalization.MapFromPayload(data)
	if record == nil {
		return domain.DashboardStats{}, domain.NewFailure(domain.FailureServer, "dashboard.stats", "unexpected stats payload")
	}
	return domain.NormalizeDashboardStats(record), nil
}

// AllDepartments lists every department regardless of paging.
func (c *DashboardHTTPClient) AllDepartments(ctx context.Context) ([]domain.Department, error) {
	path, _ := c.departments.endpoint.listPathBuilder("")
	data, err := c.departments.exchange(ctx, "lookup", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	switch typed := data.(type) {
	case []any:
		return c.departments.decodeItems(typed), nil
	case map[string]any:
		for _, key := range []string{"content", "items"} {
			if items, ok := typed[key]; ok {
				return c.departments.decodeItems(normalization.AsInterfaceSlice(items)), nil
			}
		}
	}
	return nil, domain.NewFailure(domain.FailureServer, "departments.lookup", "unexpected list payload")
}

// StatsSource adapts the client to a per-token factory.
func (c *DashboardHTTPClient) StatsSource() func(token string) port.DashboardFetcher {
	return func(token string) port.DashboardFetcher {
		return c.WithToken(token)
	}
}

// LookupSource adapts the client to a per-token factory.
func (c *DashboardHTTPClient) LookupSource() func(token string) port.DepartmentLookup {
	return func(token string) port.DepartmentLookup {
		return c.WithToken(token)
	}
}

var (
	_ port.DashboardFetcher = (*DashboardHTTPClient)(nil)
	_ port.DepartmentLookup = (*DashboardHTTPClient)(nil)
)
