package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/auth"
)

// newUpgrader accepts any origin when allowed is empty.
func newUpgrader(allowed []string) websocket.Upgrader {
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if trimmed := strings.TrimRight(strings.TrimSpace(origin), "/"); trimmed != "" {
			origins[strings.ToLower(trimmed)] = struct{}{}
		}
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			origin := strings.ToLower(strings.TrimRight(r.Header.Get("Origin"), "/"))
			if origin == "" {
				return true
			}
			_, ok := origins[origin]
			return ok
		},
	}
}

// authenticate validates the request token and returns the operator session.
func authenticate(c echo.Context, validator auth.TokenValidator) (*infrastructure.JWTSession, *auth.Claims, error) {
	token, source, err := auth.RequestToken(c.Request(), c.Param("token"))
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	claims, err := validator.Validate(token)
	if err != nil {
		slog.Debug("token rejected", slog.String("source", string(source)), slog.String("path", c.Path()), slog.Any("error", err))
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		default:
			return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}
	return infrastructure.NewJWTSession(claims, token), claims, nil
}
