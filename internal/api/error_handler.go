package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Adds the bearer challenge header to every 401.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, ok := statusFor(domain.KindOf(err)); ok {
		return code, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	lg := logger.FromContext(c.Request().Context(), log)
	lg.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func statusFor(kind error) (int, bool) {
	switch kind {
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized, true
	case domain.ErrForbidden:
		return http.StatusForbidden, true
	case domain.ErrBadRequest:
		return http.StatusBadRequest, true
	case domain.ErrConflict:
		return http.StatusConflict, true
	case domain.ErrNotFound:
		return http.StatusNotFound, true
	}
	return 0, false
}
