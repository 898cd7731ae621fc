package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/platform/metrics"
	"adminConsole/internal/shared/auth"
	"adminConsole/internal/shared/normalization"
)

// WebsocketOptions tunes console connections.
type WebsocketOptions struct {
	SendBuffer     int
	CommandTimeout time.Duration
	AllowedOrigins []string
}

// NewConsoleWebsocketHandler exposes /ws/console/:entity. Each connection
// mounts its own list view; every state change is pushed as an
// "<entity>.state" message and every outcome as "<entity>.outcome".
func NewConsoleWebsocketHandler(
	hub *infrastructure.Hub,
	views *usecase.ViewFactory,
	validator auth.TokenValidator,
	opts WebsocketOptions,
) echo.HandlerFunc {
	upgrader := newUpgrader(opts.AllowedOrigins)

	return func(c echo.Context) error {
		entity := normalization.NormalizeEntity(c.Param("entity"))
		peerIP := c.RealIP()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)

		if !normalization.IsValidEntity(entity) {
			slog.Warn("console ws entity not supported", slog.String("entity", c.Param("entity")), slog.String("ip", peerIP))
			return echo.NewHTTPError(http.StatusNotFound, "entity "+entity+" is not part of the console")
		}

		session, claims, err := authenticate(c, validator)
		if err != nil {
			slog.Warn("console ws auth failed", slog.String("entity", entity), slog.String("ip", peerIP), slog.Any("error", err))
			return err
		}

		var viewID string
		local := port.OutcomeSinkFunc(func(ctx context.Context, outcome domain.Outcome) {
			hub.SendToView(ctx, viewID, domain.BuildOutcomeMessage(outcome, map[string]string{"viewId": viewID}))
		})

		view, err := views.Open(entity, session, local)
		if err != nil {
			return httpError("console.open", err)
		}
		viewID = view.ID()

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("console ws upgrade failed", slog.String("entity", entity), slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, infrastructure.ClientIdentity{
			UserID:    claims.UserID,
			SessionID: claims.SessionID,
			ViewID:    view.ID(),
			Entity:    entity,
		}, opts.SendBuffer, unknownCommand(entity))
		client.Commands().SetTimeout(opts.CommandTimeout)
		registerViewCommands(client, view)

		view.Observe(func() {
			client.SendDomainMessage(stateMessage(view))
		})

		metrics.ViewsOpen.WithLabelValues(entity).Inc()
		client.AddCloseHook(func(*infrastructure.Client) {
			metrics.ViewsOpen.WithLabelValues(entity).Dec()
		})

		hub.AttachClient(client, nil)
		go client.WritePump()
		go client.ReadPump()

		user := session.CurrentUser()
		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"userId":    claims.UserID,
				"sessionId": claims.SessionID,
				"viewId":    view.ID(),
			},
			Data: map[string]any{
				"entity":        entity,
				"viewId":        view.ID(),
				"user":          user,
				"canAdminister": session.HasPrivilege(port.CapabilityAdminister),
				"schema":        view.Schema(),
			},
			Timestamp: time.Now().UTC(),
		})

		go mountView(client.Context(), view, opts.CommandTimeout)

		slog.Info("console ws connected",
			slog.String("entity", entity),
			slog.String("viewId", view.ID()),
			slog.String("userId", claims.UserID),
			slog.String("role", claims.PrimaryRole()),
			slog.String("ip", peerIP),
			slog.String("reqID", requestID),
		)
		return nil
	}
}

// mountView loads the first page. ctx is the connection's; a closed view
// abandons the load.
func mountView(ctx context.Context, view usecase.ConsoleView, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeoutOr(timeout))
	defer cancel()
	if err := view.Mount(ctx); err != nil {
		slog.Warn("console view mount failed", slog.String("entity", view.Entity()), slog.String("viewId", view.ID()), slog.Any("error", err))
	}
}

func stateMessage(view usecase.ConsoleView) *domain.Message {
	return domain.BuildStateMessage(view.Entity(), view.ID(), view.Query(), view.State(), time.Now(), nil)
}
