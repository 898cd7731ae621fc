package transport

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/auth"
)

// Dependencies groups what the console routes need.
type Dependencies struct {
	Hub         *infrastructure.Hub
	Views       *usecase.ViewFactory
	Dashboard   *usecase.DashboardUseCase
	Exporter    port.Exporter
	Validator   auth.TokenValidator
	Websocket   WebsocketOptions
	HTTPTimeout time.Duration
}

// RegisterRoutes mounts the console websocket and REST endpoints. The
// dashboard route is registered before the :entity route so echo matches it
// first.
func RegisterRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"clients": deps.Hub.ClientCount(),
		})
	})

	ws := e.Group("/ws")
	ws.GET("/notifications", NewNotificationsWebsocketHandler(deps.Hub, deps.Validator, deps.Websocket))
	ws.GET("/console/dashboard", NewDashboardWebsocketHandler(deps.Hub, deps.Dashboard, deps.Validator, deps.Websocket))
	ws.GET("/console/:entity", NewConsoleWebsocketHandler(deps.Hub, deps.Views, deps.Validator, deps.Websocket))
	ws.GET("/console/:entity/:token", NewConsoleWebsocketHandler(deps.Hub, deps.Views, deps.Validator, deps.Websocket))

	api := e.Group("/api/console")
	api.GET("/dashboard", NewDashboardHandler(deps.Dashboard, deps.Validator, deps.HTTPTimeout))
	api.GET("/departments/lookup", NewDepartmentLookupHandler(deps.Dashboard, deps.Validator, deps.HTTPTimeout))
	api.GET("/:entity/export", NewExportHandler(deps.Views, deps.Exporter, deps.Validator, deps.HTTPTimeout))
}
