package domain

import (
	"strconv"

	"adminConsole/internal/shared/normalization"
)

// Department groups employees. EmployeeCount is computed by the server.
type Department struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	EmployeeCount int64  `json:"employeeCount"`
}

func (d Department) Identity() string { return d.ID }

// NormalizeDepartment attempts to construct a Department from an arbitrary map payload.
func NormalizeDepartment(raw map[string]any) (Department, bool) {
	id := normalization.AsIdentity(raw["id"])
	if id == "" {
		return Department{}, false
	}
	return Department{
		ID:            id,
		Name:          normalization.AsString(raw["name"]),
		Description:   normalization.AsString(raw["description"]),
		EmployeeCount: normalization.AsInt64(raw["employeeCount"]),
	}, true
}

func departmentValues(d Department) map[string]string {
	return map[string]string{
		"id":            d.ID,
		"name":          d.Name,
		"description":   d.Description,
		"employeeCount": strconv.FormatInt(d.EmployeeCount, 10),
	}
}

// DepartmentKind describes the departments collection. Departments carry no
// status, so there is nothing to toggle.
var DepartmentKind = &Descriptor[Department]{
	Name:     "departments",
	Singular: "Department",
	BasePath: "/departments",
	Fields: []FieldSpec{
		{Name: "name", Label: "Name", Kind: FieldText, CreateRules: "required,min=2,max=100", Searchable: true,
			Messages: map[string]string{
				"required": "Name is required",
				"min":      "At least 2 characters",
				"max":      "Max 100 characters",
			}},
		{Name: "description", Label: "Description", Kind: FieldText, CreateRules: "omitempty,max=500", Searchable: true,
			Messages: map[string]string{"max": "Max 500 characters"}},
	},
	Columns: []Column{
		{Key: "name", Label: "Name"},
		{Key: "description", Label: "Description"},
		{Key: "employeeCount", Label: "Employees"},
	},
	DefaultQuery: QueryState{PageSize: DefaultPageSize, SortKey: "id", SortDir: SortAsc},
	FilterKeys:   []string{"search"},
	SortKeys:     []string{"id", "name", "employeeCount"},
	PatchStyle:   PatchMerge,
	Decode:       NormalizeDepartment,
	Values:       departmentValues,
}
