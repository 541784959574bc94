package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carlot/inventory-api/internal/core/domain"
)

const ctxKeyUser = "current_user"

// SetCurrentUser stores the identity resolved by the Authenticate middleware.
func SetCurrentUser(c echo.Context, u *domain.User) {
	c.Set(ctxKeyUser, u)
}

// CurrentUser returns the resolved identity, or nil for anonymous requests.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(ctxKeyUser).(*domain.User)
	return u
}

// requireUser fails fast when a handler that needs an identity is reached
// without one, e.g. because a route was registered without its gate.
func requireUser(c echo.Context) (*domain.User, error) {
	u := CurrentUser(c)
	if u == nil {
		return nil, domain.Unauthorized("Not authenticated")
	}
	return u, nil
}

// paramID parses the :id path parameter.
func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "id must be a positive integer")
	}
	return id, nil
}
