package infrastructure

import (
	"strings"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/shared/auth"
)

// JWTSession exposes validated token claims as a read-only session.
type JWTSession struct {
	claims *auth.Claims
	token  string
}

func NewJWTSession(claims *auth.Claims, token string) *JWTSession {
	return &JWTSession{claims: claims, token: strings.TrimSpace(token)}
}

func (s *JWTSession) CurrentUser() *port.SessionUser {
	if s == nil || s.claims == nil {
		return nil
	}
	return &port.SessionUser{
		Identity:    s.claims.UserID,
		DisplayName: s.claims.Name,
		Role:        s.claims.PrimaryRole(),
	}
}

// HasPrivilege grants administration to ADMIN only.
func (s *JWTSession) HasPrivilege(capability port.Capability) bool {
	if s == nil || s.claims == nil {
		return false
	}
	switch capability {
	case port.CapabilityAdminister:
		return s.claims.HasRole(string(domain.UserRoleAdmin))
	default:
		return false
	}
}

func (s *JWTSession) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// SessionID identifies the sign-in the session came from.
func (s *JWTSession) SessionID() string {
	if s == nil || s.claims == nil {
		return ""
	}
	return s.claims.SessionID
}

var _ port.Session = (*JWTSession)(nil)
