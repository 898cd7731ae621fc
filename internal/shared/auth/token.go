package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ErrUnsupportedScheme is returned when the Authorization header carries a
// scheme other than Bearer.
var ErrUnsupportedScheme = errors.New("unsupported authorization scheme")

// TokenQueryParam is the query parameter browsers use when they cannot set
// headers on a websocket upgrade.
const TokenQueryParam = "token"

// TokenSource says where a request token was found.
type TokenSource string

const (
	TokenFromNone   TokenSource = ""
	TokenFromPath   TokenSource = "path"
	TokenFromHeader TokenSource = "header"
	TokenFromQuery  TokenSource = "query"
)

// RequestToken finds the caller's token. pathToken is the router's :token
// segment and wins when set; then the Authorization header; then the token
// query parameter. A non-Bearer Authorization header is rejected instead of
// falling through to the query.
func RequestToken(r *http.Request, pathToken string) (string, TokenSource, error) {
	if token := strings.TrimSpace(pathToken); token != "" {
		return token, TokenFromPath, nil
	}
	if r == nil {
		return "", TokenFromNone, nil
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		token, err := BearerToken(header)
		if err != nil {
			return "", TokenFromHeader, err
		}
		if token != "" {
			return token, TokenFromHeader, nil
		}
	}
	if r.URL != nil {
		if token := strings.TrimSpace(r.URL.Query().Get(TokenQueryParam)); token != "" {
			return token, TokenFromQuery, nil
		}
	}
	return "", TokenFromNone, nil
}

// BearerToken returns the credentials of a "Bearer <token>" header value; the
// scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil
	}
	scheme, credentials, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", ErrUnsupportedScheme
	}
	return strings.TrimSpace(credentials), nil
}
