package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// SessionCookie is the cookie that carries the session token.
const SessionCookie = "token"

const (
	userKey  = "user"
	tokenKey = "session_token"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth requires a valid session. The token is read from the session cookie,
// then from an "Authorization: Bearer" header. The resolved user and the raw
// token are stored on the context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return domain.ErrUnauthenticated
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			SetSession(c, user, token)
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userKey).(*domain.User)
	return u, ok && u != nil
}

// SetSession attaches the authenticated user and its token to the context.
func SetSession(c echo.Context, u *domain.User, token string) {
	c.Set(userKey, u)
	c.Set(tokenKey, token)
}

// SessionToken returns the raw token accepted by Auth.
func SessionToken(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
