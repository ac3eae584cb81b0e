package server

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		if d.Health != nil {
			if err := d.Health(c.Request().Context()); err != nil {
				logger.FromCtx(c.Request().Context()).Error("health check", "err", err)
				return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Error: "unhealthy"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")
	d.Webhook.RegisterRoutes(api)

	admin := api.Group("/admin",
		middleware.SessionAuth(d.Config.SupabaseJWTSecret),
		middleware.ManagerGuard(d.Managers, d.Config.AdminBypassEmails, d.Config.LoginURL, d.Metrics),
	)
	d.AdminOrders.RegisterRoutes(admin)
}
