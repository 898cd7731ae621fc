package port

import "errors"

// Capability names a privilege the core gates actions behind.
type Capability string

// CapabilityAdminister covers create, edit, delete and status toggles.
const CapabilityAdminister Capability = "administer"

var ErrNoSession = errors.New("no active session")

// SessionUser is the identity of the signed-in operator.
type SessionUser struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Session is consumed read-only by the core.
type Session interface {
	CurrentUser() *SessionUser
	HasPrivilege(capability Capability) bool
	// Token is the bearer credential forwarded to the REST API.
	Token() string
}
