package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
)

// sessionUser returns the caller resolved by the Auth middleware. A missing
// user means the route was mounted without Auth.
func sessionUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
