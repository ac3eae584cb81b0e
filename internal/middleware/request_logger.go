package middleware

import (
	"log/slog"

	"storefront/internal/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger はリクエストIDつきの logger を context に入れて、終わったら1行出す。
// echo の RequestID の後に置く。
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	inject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			l := base.With("request_id", rid)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.Inject(req.Context(), l)))
			return next(c)
		}
	}

	access := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			l := logger.FromCtx(c.Request().Context())
			if v.Error != nil {
				l.Error("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			l.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return inject(access(next))
	}
}
