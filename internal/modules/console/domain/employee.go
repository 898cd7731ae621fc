package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"adminConsole/internal/shared/normalization"
)

// EmployeeStatus is the employment state exposed by the REST API.
type EmployeeStatus string

const (
	EmployeeStatusUnknown  EmployeeStatus = ""
	EmployeeStatusActive   EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive EmployeeStatus = "INACTIVE"
)

// NormalizeEmployeeStatus returns the canonical status for the given input.
// Unknown statuses are uppercased and returned as-is to avoid data loss.
func NormalizeEmployeeStatus(value any) EmployeeStatus {
	s, ok := value.(string)
	if !ok {
		return EmployeeStatusUnknown
	}
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	switch trimmed {
	case "":
		return EmployeeStatusUnknown
	case string(EmployeeStatusActive):
		return EmployeeStatusActive
	case string(EmployeeStatusInactive):
		return EmployeeStatusInactive
	default:
		return EmployeeStatus(trimmed)
	}
}

// Toggled returns the opposite status. Anything that is not ACTIVE activates.
func (s EmployeeStatus) Toggled() EmployeeStatus {
	if s == EmployeeStatusActive {
		return EmployeeStatusInactive
	}
	return EmployeeStatusActive
}

// Employee is a staff record. DepartmentID is a lookup-only reference.
type Employee struct {
	ID             string           `json:"id"`
	EmployeeCode   string           `json:"employeeId"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone,omitempty"`
	Address        string           `json:"address,omitempty"`
	DepartmentID   *int64           `json:"departmentId"`
	DepartmentName string           `json:"departmentName,omitempty"`
	Salary         *decimal.Decimal `json:"salary"`
	JoiningDate    *time.Time       `json:"joiningDate"`
	Status         EmployeeStatus   `json:"status"`
	ProfileImage   string           `json:"profileImage,omitempty"`
}

func (e Employee) Identity() string { return e.ID }

// FullName joins the name parts.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// NormalizeEmployee attempts to construct an Employee from an arbitrary map payload.
func NormalizeEmployee(raw map[string]any) (Employee, bool) {
	id := normalization.AsIdentity(raw["id"])
	if id == "" {
		return Employee{}, false
	}
	employee := Employee{
		ID:             id,
		EmployeeCode:   normalization.AsString(raw["employeeId"]),
		FirstName:      normalization.AsString(raw["firstName"]),
		LastName:       normalization.AsString(raw["lastName"]),
		Email:          normalization.AsString(raw["email"]),
		Phone:          normalization.AsString(raw["phone"]),
		Address:        normalization.AsString(raw["address"]),
		DepartmentID:   normalization.AsOptionalInt64(raw["departmentId"]),
		DepartmentName: normalization.AsString(raw["departmentName"]),
		Salary:         normalization.AsOptionalDecimal(raw["salary"]),
		JoiningDate:    normalization.AsOptionalTime(raw["joiningDate"]),
		Status:         NormalizeEmployeeStatus(raw["status"]),
		ProfileImage:   normalization.AsString(raw["profileImage"]),
	}
	return employee, true
}

func employeeValues(e Employee) map[string]string {
	values := map[string]string{
		"id":             e.ID,
		"employeeId":     e.EmployeeCode,
		"firstName":      e.FirstName,
		"lastName":       e.LastName,
		"name":           e.FullName(),
		"email":          e.Email,
		"phone":          e.Phone,
		"address":        e.Address,
		"departmentId":   "",
		"departmentName": e.DepartmentName,
		"salary":         "",
		"joiningDate":    "",
		"status":         string(e.Status),
		"profileImage":   e.ProfileImage,
	}
	if e.DepartmentID != nil {
		values["departmentId"] = strconv.FormatInt(*e.DepartmentID, 10)
	}
	if e.Salary != nil {
		values["salary"] = e.Salary.String()
	}
	if e.JoiningDate != nil {
		values["joiningDate"] = e.JoiningDate.Format("2006-01-02")
	}
	return values
}

// EmployeeKind describes the employees collection.
var EmployeeKind = &Descriptor[Employee]{
	Name:     "employees",
	Singular: "Employee",
	BasePath: "/employees",
	Fields: []FieldSpec{
		{Name: "employeeId", Label: "Employee ID", Kind: FieldText, CreateRules: "required,max=20", Searchable: true,
			Messages: map[string]string{"required": "Employee ID is required"}},
		{Name: "firstName", Label: "First name", Kind: FieldText, CreateRules: "required,min=2,max=50", Searchable: true,
			Messages: map[string]string{"required": "First name is required"}},
		{Name: "lastName", Label: "Last name", Kind: FieldText, CreateRules: "required,min=2,max=50", Searchable: true,
			Messages: map[string]string{"required": "Last name is required"}},
		{Name: "email", Label: "Email", Kind: FieldText, CreateRules: "required,email", Searchable: true,
			Messages: map[string]string{"required": "Email is required"}},
		{Name: "phone", Label: "Phone", Kind: FieldText, CreateRules: "omitempty,phone"},
		{Name: "departmentId", Label: "Department", Kind: FieldReference, CreateRules: "omitempty,number"},
		{Name: "salary", Label: "Salary", Kind: FieldDecimal, CreateRules: "omitempty,numeric,nonnegative",
			Messages: map[string]string{"nonnegative": "Salary must be positive"}},
		{Name: "joiningDate", Label: "Joining date", Kind: FieldDate, CreateRules: "omitempty,datetime=2006-01-02"},
		{Name: "status", Label: "Status", Kind: FieldEnum, Default: string(EmployeeStatusActive),
			CreateRules: "omitempty,oneof=ACTIVE INACTIVE", Options: []string{string(EmployeeStatusActive), string(EmployeeStatusInactive)}},
		{Name: "address", Label: "Address", Kind: FieldText, CreateRules: "omitempty,max=255"},
	},
	Columns: []Column{
		{Key: "employeeId", Label: "Employee ID"},
		{Key: "firstName", Label: "First Name"},
		{Key: "lastName", Label: "Last Name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "departmentName", Label: "Department"},
		{Key: "salary", Label: "Salary"},
		{Key: "joiningDate", Label: "Joining Date"},
		{Key: "status", Label: "Status"},
	},
	DefaultQuery: QueryState{PageSize: DefaultPageSize, SortKey: "id", SortDir: SortAsc},
	FilterKeys:   []string{"search", "departmentId", "status"},
	SortKeys:     []string{"id", "firstName", "salary", "joiningDate"},
	PatchStyle:   PatchQueryParam,
	Decode:       NormalizeEmployee,
	Values:       employeeValues,
	Toggle: func(e Employee) StatusChange {
		next := e.Status.Toggled()
		return StatusChange{Field: "status", Value: string(next), Label: string(next)}
	},
}
