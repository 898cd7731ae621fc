package domain

import (
	"strconv"
	"strings"
	"time"

	"adminConsole/internal/shared/normalization"
)

// UserRole is the portal role of an account.
type UserRole string

const (
	UserRoleUnknown UserRole = ""
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleUser    UserRole = "USER"
)

// NormalizeUserRole maps loose role spellings ("ROLE_ADMIN", "admin") onto a role.
func NormalizeUserRole(value any) UserRole {
	s, ok := value.(string)
	if !ok {
		return UserRoleUnknown
	}
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	trimmed = strings.TrimPrefix(trimmed, "ROLE_")
	switch trimmed {
	case "":
		return UserRoleUnknown
	case string(UserRoleAdmin):
		return UserRoleAdmin
	case string(UserRoleUser):
		return UserRoleUser
	default:
		return UserRole(trimmed)
	}
}

// User is a portal account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Identity() string { return u.ID }

// NormalizeUser attempts to construct a User from an arbitrary map payload.
func NormalizeUser(raw map[string]any) (User, bool) {
	id := normalization.AsIdentity(raw["id"])
	if id == "" {
		return User{}, false
	}
	user := User{
		ID:       id,
		Username: normalization.AsString(raw["username"]),
		Email:    normalization.AsString(raw["email"]),
		Role:     NormalizeUserRole(raw["role"]),
		Enabled:  normalization.AsBool(raw["enabled"]),
	}
	if created := normalization.AsOptionalTime(raw["createdAt"]); created != nil {
		user.CreatedAt = *created
	}
	return user, true
}

func userValues(u User) map[string]string {
	values := map[string]string{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      string(u.Role),
		"enabled":   strconv.FormatBool(u.Enabled),
		"createdAt": "",
	}
	if !u.CreatedAt.IsZero() {
		values["createdAt"] = u.CreatedAt.Format(time.RFC3339)
	}
	return values
}

// UserKind describes the portal accounts collection. The password is only
// required when creating.
var UserKind = &Descriptor[User]{
	Name:     "users",
	Singular: "User",
	BasePath: "/users",
	Fields: []FieldSpec{
		{Name: "username", Label: "Username", Kind: FieldText, CreateRules: "required,max=50", Searchable: true},
		{Name: "email", Label: "Email", Kind: FieldText, CreateRules: "required,email", Searchable: true},
		{Name: "password", Label: "Password", Kind: FieldSecret, CreateRules: "required,min=6", EditRules: "omitempty,min=6",
			Messages: map[string]string{"min": "Password must be at least 6 characters"}},
		{Name: "role", Label: "Role", Kind: FieldEnum, Default: string(UserRoleUser),
			CreateRules: "required,oneof=ADMIN USER", Options: []string{string(UserRoleAdmin), string(UserRoleUser)}},
		{Name: "enabled", Label: "Enabled", Kind: FieldBool, Default: "true", CreateRules: "omitempty,boolean"},
	},
	Columns: []Column{
		{Key: "username", Label: "Username"},
		{Key: "email", Label: "Email"},
		{Key: "role", Label: "Role"},
		{Key: "enabled", Label: "Enabled"},
		{Key: "createdAt", Label: "Created"},
	},
	DefaultQuery: QueryState{PageSize: DefaultPageSize, SortKey: "id", SortDir: SortAsc},
	FilterKeys:   []string{"search", "role"},
	SortKeys:     []string{"id", "username", "createdAt"},
	PatchStyle:   PatchMerge,
	Decode:       NormalizeUser,
	Values:       userValues,
	Toggle: func(u User) StatusChange {
		next := !u.Enabled
		label := "DISABLED"
		if next {
			label = "ENABLED"
		}
		return StatusChange{Field: "enabled", Value: strconv.FormatBool(next), Label: label}
	},
}
