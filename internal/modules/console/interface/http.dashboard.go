package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/auth"
)

// NewDashboardWebsocketHandler exposes /ws/console/dashboard. The snapshot is
// loaded before the upgrade and reloaded on "refresh".
func NewDashboardWebsocketHandler(hub *infrastructure.Hub, dashboardUC *usecase.DashboardUseCase, validator auth.TokenValidator, opts WebsocketOptions) echo.HandlerFunc {
	upgrader := newUpgrader(opts.AllowedOrigins)

	return func(c echo.Context) error {
		session, claims, err := authenticate(c, validator)
		if err != nil {
			return err
		}
		token := session.Token()

		ctx, cancel := context.WithTimeout(c.Request().Context(), timeoutOr(opts.CommandTimeout))
		defer cancel()
		dashboard, err := dashboardUC.Load(ctx, token)
		if err != nil {
			return httpError("dashboard.load", err)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("dashboard ws upgrade failed", slog.String("ip", c.RealIP()), slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, infrastructure.ClientIdentity{
			UserID:    claims.UserID,
			SessionID: claims.SessionID,
			Entity:    domain.ActionDashboard,
		}, opts.SendBuffer, unknownCommand(domain.ActionDashboard))
		client.Commands().SetTimeout(opts.CommandTimeout)
		client.Commands().RegisterAsync("refresh", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
			refreshed, err := dashboardUC.Load(ctx, token)
			if err != nil {
				sendCommandError(client, domain.ActionDashboard, cmd.Action, domain.MessageOf(err))
				return
			}
			client.SendDomainMessage(domain.BuildDashboardMessage(refreshed, time.Now(), nil))
		})
		hub.AttachClient(client, nil)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:     domain.TopicSystemConnected,
			Entity:    domain.SystemEntity,
			Action:    domain.ActionConnected,
			Metadata:  map[string]string{"userId": claims.UserID, "sessionId": claims.SessionID},
			Data:      map[string]any{"mode": domain.ActionDashboard, "user": session.CurrentUser()},
			Timestamp: time.Now().UTC(),
		})
		client.SendDomainMessage(domain.BuildDashboardMessage(dashboard, time.Now(), nil))
		slog.Info("dashboard ws connected", slog.String("userId", claims.UserID), slog.String("ip", c.RealIP()))
		return nil
	}
}

// NewDashboardHandler serves GET /api/console/dashboard.
func NewDashboardHandler(dashboardUC *usecase.DashboardUseCase, validator auth.TokenValidator, timeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, _, err := authenticate(c, validator)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeoutOr(timeout))
		defer cancel()
		dashboard, err := dashboardUC.Load(ctx, session.Token())
		if err != nil {
			return httpError("dashboard.load", err)
		}
		return c.JSON(http.StatusOK, dashboard)
	}
}

// NewDepartmentLookupHandler serves GET /api/console/departments/lookup for
// the employee form's department picker.
func NewDepartmentLookupHandler(dashboardUC *usecase.DashboardUseCase, validator auth.TokenValidator, timeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, _, err := authenticate(c, validator)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeoutOr(timeout))
		defer cancel()
		options, err := dashboardUC.LookupDepartments(ctx, session.Token())
		if err != nil {
			return httpError("departments.lookup", err)
		}
		return c.JSON(http.StatusOK, options)
	}
}

func timeoutOr(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}
