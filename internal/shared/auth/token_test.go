package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestRequestTokenLookupOrder(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/console/users?token=query-token", nil)
	req.Header.Set("Authorization", "bearer header-token ")

	token, source, err := RequestToken(req, " path-token ")
	if err != nil || token != "path-token" || source != TokenFromPath {
		t.Fatalf("expected path token, got %q %q %v", token, source, err)
	}

	token, source, err = RequestToken(req, "")
	if err != nil || token != "header-token" || source != TokenFromHeader {
		t.Fatalf("expected header token, got %q %q %v", token, source, err)
	}

	req.Header.Del("Authorization")
	token, source, err = RequestToken(req, "")
	if err != nil || token != "query-token" || source != TokenFromQuery {
		t.Fatalf("expected query token, got %q %q %v", token, source, err)
	}
}

func TestRequestTokenRejectsOtherSchemes(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/console/users/export?token=query-token", nil)
	req.Header.Set("Authorization", "Basic YWRtaW46c2VjcmV0")

	token, source, err := RequestToken(req, "")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected unsupported scheme, got %v", err)
	}
	if token != "" || source != TokenFromHeader {
		t.Fatalf("expected no token from header, got %q %q", token, source)
	}
}

func TestRequestTokenMissing(t *testing.T) {
	token, source, err := RequestToken(httptest.NewRequest("GET", "/ws/notifications", nil), "")
	if err != nil || token != "" || source != TokenFromNone {
		t.Fatalf("expected no token, got %q %q %v", token, source, err)
	}
	if token, _, _ := RequestToken(nil, ""); token != "" {
		t.Fatalf("expected empty token for nil request, got %q", token)
	}
}

func TestBearerToken(t *testing.T) {
	if token, err := BearerToken("Bearer  abc "); err != nil || token != "abc" {
		t.Fatalf("expected abc, got %q %v", token, err)
	}
	if token, err := BearerToken(""); err != nil || token != "" {
		t.Fatalf("expected empty, got %q %v", token, err)
	}
	if _, err := BearerToken("Token abc"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected unsupported scheme, got %v", err)
	}
}
