package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/httputil"
)

var consoleErrors = httputil.NewErrorMapper().
	WithMapping(usecase.ErrUnsupportedEntity, http.StatusNotFound, "entity is not part of the console").
	WithMapping(infrastructure.ErrEntityUnsupported, http.StatusNotFound, "entity is not part of the console").
	WithMapping(port.ErrNothingToExport, http.StatusNoContent, "nothing to export").
	WithMapping(port.ErrNoSession, http.StatusUnauthorized, "not signed in").
	WithMapping(usecase.ErrIdentityBusy, http.StatusConflict, usecase.ErrIdentityBusy.Error()).
	WithMapping(domain.ErrValidation, http.StatusBadRequest, "").
	WithMapping(domain.ErrServerValidation, http.StatusBadRequest, "").
	WithMapping(domain.ErrAuthorization, http.StatusForbidden, "").
	WithMapping(domain.ErrNotFound, http.StatusNotFound, "").
	WithMapping(domain.ErrConflict, http.StatusConflict, "").
	WithMapping(domain.ErrNetwork, http.StatusBadGateway, "").
	WithMapping(domain.ErrServer, http.StatusBadGateway, "")

// httpError converts a console error into an echo error, logging server-side
// failures.
func httpError(op string, err error) error {
	info := consoleErrors.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("console request failed", slog.String("op", op), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		slog.Debug("console request rejected", slog.String("op", op), slog.Int("status", info.Status), slog.Any("error", err))
	}
	var failure *domain.Failure
	if errors.As(err, &failure) && len(failure.FieldErrors) > 0 {
		return echo.NewHTTPError(info.Status, map[string]any{
			"message":     info.Message,
			"fieldErrors": failure.FieldErrors,
		})
	}
	return echo.NewHTTPError(info.Status, info.Message)
}
