package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/pkg/logger"
)

// RequestLogger stores a child of base tagged with the request id in the
// request context. It must run after echo's RequestID middleware.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(req.WithContext(logger.ForRequest(req.Context(), base, id)))
			return next(c)
		}
	}
}
