package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// RequireRole lets the request through only when the session user holds one
// of roles. It must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return requireRole(func(r domain.Role) bool {
		_, ok := allowed[r]
		return ok
	})
}

// RequireSeller gates product management and seller metrics.
func RequireSeller() echo.MiddlewareFunc {
	return requireRole(domain.Role.CanSell)
}

func requireRole(permit func(domain.Role) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please login first!"})
			}
			if !permit(user.Role) {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Access denied! Only sellers allowed."})
			}
			return next(c)
		}
	}
}
