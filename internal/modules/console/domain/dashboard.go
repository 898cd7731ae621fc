package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"adminConsole/internal/shared/normalization"
)

// DepartmentHeadcount is one bar of the employees-per-department chart.
type DepartmentHeadcount struct {
	Department string `json:"department"`
	Employees  int64  `json:"employees"`
}

// DashboardStats is the summary shown on the console landing page.
type DashboardStats struct {
	TotalEmployees        int64                 `json:"totalEmployees"`
	ActiveEmployees       int64                 `json:"activeEmployees"`
	InactiveEmployees     int64                 `json:"inactiveEmployees"`
	TotalDepartments      int64                 `json:"totalDepartments"`
	NewJoinersThisMonth   int64                 `json:"newJoinersThisMonth"`
	AverageSalary         *decimal.Decimal      `json:"averageSalary,omitempty"`
	EmployeesByDepartment []DepartmentHeadcount `json:"employeesByDepartment"`
}

// DepartmentOption is one entry of the department picker.
type DepartmentOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Dashboard bundles the stats with the department lookup.
type Dashboard struct {
	Stats       DashboardStats     `json:"stats"`
	Departments []DepartmentOption `json:"departments"`
}

// NormalizeDashboardStats decodes the stats payload. The per-department
// breakdown may be an object keyed by name or a list of {name,count} rows.
func NormalizeDashboardStats(raw map[string]any) DashboardStats {
	stats := DashboardStats{
		TotalEmployees:      normalization.AsInt64(raw["totalEmployees"]),
		ActiveEmployees:     normalization.AsInt64(raw["activeEmployees"]),
		InactiveEmployees:   normalization.AsInt64(raw["inactiveEmployees"]),
		TotalDepartments:    normalization.AsInt64(raw["totalDepartments"]),
		NewJoinersThisMonth: normalization.AsInt64(raw["newJoineesThisMonth"]),
		AverageSalary:       normalization.AsOptionalDecimal(raw["averageSalary"]),
	}

	breakdown := raw["departmentStats"]
	if breakdown == nil {
		breakdown = raw["employeesByDepartment"]
	}
	switch breakdown := breakdown.(type) {
	case map[string]any:
		for name, count := range breakdown {
			stats.EmployeesByDepartment = append(stats.EmployeesByDepartment, DepartmentHeadcount{
				Department: strings.TrimSpace(name),
				Employees:  normalization.AsInt64(count),
			})
		}
	case []any:
		for _, item := range breakdown {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := normalization.AsString(row["departmentName"])
			if name == "" {
				name = normalization.AsString(row["name"])
			}
			count := row["count"]
			if count == nil {
				count = row["employeeCount"]
			}
			stats.EmployeesByDepartment = append(stats.EmployeesByDepartment, DepartmentHeadcount{
				Department: name,
				Employees:  normalization.AsInt64(count),
			})
		}
	}
	sort.Slice(stats.EmployeesByDepartment, func(i, j int) bool {
		return stats.EmployeesByDepartment[i].Department < stats.EmployeesByDepartment[j].Department
	})
	return stats
}

// DepartmentOptions projects departments onto picker entries, sorted by name.
func DepartmentOptions(departments []Department) []DepartmentOption {
	options := make([]DepartmentOption, 0, len(departments))
	for _, department := range departments {
		options = append(options, DepartmentOption{ID: department.ID, Name: department.Name})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Name) < strings.ToLower(options[j].Name)
	})
	return options
}
