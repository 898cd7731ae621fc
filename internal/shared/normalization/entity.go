package normalization

import "strings"

// entityAliases maps the spellings a browser may use to the canonical list name.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"employee":  "employees",
	"employees": "employees",
	"staff":     "employees",

	"department":  "departments",
	"departments": "departments",
	"dept":        "departments",
	"depts":       "departments",

	"user":         "users",
	"users":        "users",
	"account":      "users",
	"accounts":     "users",
	"portal-user":  "users",
	"portal-users": "users",
	"system-user":  "users",
	"system-users": "users",

	"dashboard": "dashboard",
	"stats":     "dashboard",
}

var validEntities = []string{"employees", "departments", "users"}

// NormalizeEntity converts various entity name formats to their canonical form.
//
// Example:
//
//	NormalizeEntity("Employee") => "employees"
//	NormalizeEntity("PORTAL_USER") => "users"
func NormalizeEntity(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsValidEntity reports whether raw names one of the listable record kinds.
func IsValidEntity(raw string) bool {
	normalized := NormalizeEntity(raw)
	for _, entity := range validEntities {
		if entity == normalized {
			return true
		}
	}
	return false
}

// GetAllValidEntities returns the canonical names of the listable record kinds.
func GetAllValidEntities() []string {
	return append([]string(nil), validEntities...)
}
