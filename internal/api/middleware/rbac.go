package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/carlot/inventory-api/internal/api/handler"
	"github.com/carlot/inventory-api/internal/api/metrics"
	"github.com/carlot/inventory-api/internal/core/auth"
	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// Require gates a route by tier. It must run after Authenticate.
// Anonymous callers get 401, callers whose role misses tier get 403.
func Require(gateway ports.AuthService, tier auth.Tier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gateway.Authorize(handler.CurrentUser(c), tier); err != nil {
				reason := "forbidden"
				if errors.Is(err, domain.ErrUnauthorized) {
					reason = "unauthenticated"
				}
				metrics.AccessDeniedTotal.WithLabelValues(tier.String(), reason).Inc()
				return err
			}
			return next(c)
		}
	}
}
