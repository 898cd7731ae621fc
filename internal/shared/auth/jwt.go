package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the operator identity issued by the records API sign-in.
// Role holds a single role ("ADMIN", "ROLE_USER"); Roles may carry several.
type Claims struct {
	SessionID string   `json:"sid,omitempty"`
	UserID    string   `json:"uid,omitempty"`
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole matches role case-insensitively, ignoring a "ROLE_" prefix.
func (c *Claims) HasRole(role string) bool {
	want := canonicalRole(role)
	if want == "" {
		return false
	}
	if canonicalRole(c.Role) == want {
		return true
	}
	for _, candidate := range c.Roles {
		if canonicalRole(candidate) == want {
			return true
		}
	}
	return false
}

// PrimaryRole returns the first role present, canonicalized.
func (c *Claims) PrimaryRole() string {
	if role := canonicalRole(c.Role); role != "" {
		return role
	}
	for _, candidate := range c.Roles {
		if role := canonicalRole(candidate); role != "" {
			return role
		}
	}
	return ""
}

func canonicalRole(role string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_")
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// JWTValidator verifies tokens signed with an HMAC secret or, when a public
// key is configured, RS256.
type JWTValidator struct {
	secret    []byte
	publicKey *rsa.PublicKey
	now       func() time.Time
}

func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

// NewJWTValidatorWithPublicKey prefers RS256 when publicKeyPEM parses and
// falls back to the HMAC secret otherwise.
func NewJWTValidatorWithPublicKey(secret, publicKeyPEM string) (*JWTValidator, error) {
	v := NewJWTValidator(secret)
	if strings.TrimSpace(publicKeyPEM) == "" {
		return v, nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse jwt public key: %w", err)
	}
	v.publicKey = key
	return v, nil
}

func (v *JWTValidator) Validate(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if v.publicKey == nil && len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt key not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, v.keyFunc,
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	if claims.SessionID == "" {
		claims.SessionID = claims.ID
	}
	if claims.SessionID == "" {
		if claims.ExpiresAt != nil {
			claims.SessionID = fmt.Sprintf("%s:%d", claims.Subject, claims.ExpiresAt.Unix())
		} else {
			claims.SessionID = claims.Subject
		}
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.Name == "" {
		claims.Name = claims.Subject
	}
	return claims, nil
}

func (v *JWTValidator) keyFunc(t *jwt.Token) (interface{}, error) {
	if v.publicKey != nil {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v, expected RS256", t.Header["alg"])
		}
		return v.publicKey, nil
	}
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return v.secret, nil
}
