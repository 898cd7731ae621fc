package transport

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/auth"
)

var notificationCounter atomic.Uint64

// NewNotificationsWebsocketHandler exposes /ws/notifications. The connection
// receives every outcome addressed to its user, from any open view.
func NewNotificationsWebsocketHandler(hub *infrastructure.Hub, validator auth.TokenValidator, opts WebsocketOptions) echo.HandlerFunc {
	upgrader := newUpgrader(opts.AllowedOrigins)

	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		_, claims, err := authenticate(c, validator)
		if err != nil {
			slog.Warn("notifications ws auth failed", slog.String("ip", peerIP), slog.Any("error", err))
			return err
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("notifications ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		userID := claims.UserID
		connectionID := fmt.Sprintf("notif-%d", notificationCounter.Add(1))
		client := infrastructure.NewClient(hub, conn, infrastructure.ClientIdentity{
			UserID:    userID,
			SessionID: claims.SessionID,
			ViewID:    connectionID,
			Entity:    "notifications",
		}, opts.SendBuffer, nil)
		hub.AttachClientToAll(client)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"sessionId": claims.SessionID,
				"userId":    userID,
			},
			Data: map[string]any{
				"mode":   "notifications",
				"topics": []string{"*"},
			},
			Timestamp: time.Now().UTC(),
		})

		slog.Info("notifications ws connected", slog.String("userId", userID), slog.String("connectionId", connectionID), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}
