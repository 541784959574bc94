package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/carlot/inventory-api/internal/api/handler"
	"github.com/carlot/inventory-api/internal/api/metrics"
	"github.com/carlot/inventory-api/internal/core/auth"
	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// AuthConfig configures AuthenticateWithConfig.
type AuthConfig struct {
	// Skipper selects requests that bypass token resolution entirely. They
	// reach the handler as anonymous whatever Authorization header they carry.
	Skipper echomiddleware.Skipper
	Gateway ports.AuthService
}

// Authenticate resolves the bearer token, if any, into the current identity.
//
// A request without an Authorization header passes through as anonymous; the
// route's Require gate decides whether that is enough. A header that is
// present but does not carry a valid bearer token is rejected with 401, even
// on public routes, unless the Skipper excludes the request.
func Authenticate(gateway ports.AuthService) echo.MiddlewareFunc {
	return AuthenticateWithConfig(AuthConfig{Gateway: gateway})
}

// AuthenticateWithConfig is Authenticate with a Skipper.
func AuthenticateWithConfig(config AuthConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = echomiddleware.DefaultSkipper
	}
	gateway := config.Gateway

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.Unauthorized(auth.DetailTokenInvalid).Wrap(domain.ErrTokenInvalid)
			}

			user, err := gateway.ResolveCurrentIdentity(c.Request().Context(), token)
			metrics.TokenVerificationsTotal.WithLabelValues(metrics.TokenResult(err)).Inc()
			if err != nil {
				return err
			}

			handler.SetCurrentUser(c, user)
			return next(c)
		}
	}
}
