package infrastructure

import (
	"testing"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/shared/auth"
)

func TestJWTSessionAdministerRequiresAdminRole(t *testing.T) {
	admin := NewJWTSession(&auth.Claims{UserID: "1", Name: "Root", Roles: []string{"ROLE_ADMIN"}}, " tok ")
	if !admin.HasPrivilege(port.CapabilityAdminister) {
		t.Fatalf("expected admin to administer")
	}
	if got := admin.Token(); got != "tok" {
		t.Fatalf("expected trimmed token, got %q", got)
	}
	user := admin.CurrentUser()
	if user == nil || user.Identity != "1" || user.DisplayName != "Root" || user.Role != "ADMIN" {
		t.Fatalf("unexpected session user %+v", user)
	}

	viewer := NewJWTSession(&auth.Claims{UserID: "2", Role: "USER"}, "tok")
	if viewer.HasPrivilege(port.CapabilityAdminister) {
		t.Fatalf("expected plain user to be read-only")
	}
	if viewer.HasPrivilege(port.Capability("unknown")) {
		t.Fatalf("unknown capabilities must be denied")
	}
}

func TestJWTSessionNilSafe(t *testing.T) {
	var session *JWTSession
	if session.CurrentUser() != nil || session.HasPrivilege(port.CapabilityAdminister) || session.Token() != "" {
		t.Fatalf("nil session must be empty")
	}
}
