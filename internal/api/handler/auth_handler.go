package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	cookieSecure bool
	now          func() time.Time
}

// NewAuthHandler builds the auth endpoints. cookieSecure sets the Secure
// attribute on the session cookie.
func NewAuthHandler(authService ports.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure, now: time.Now}
}

// Register creates an account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	session, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.JSON(http.StatusOK, authResponse{
		Message: "Registered successfully",
		Token:   session.Token,
		User:    toUserResponse(session.User),
	})
}

// Login checks credentials and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		User:    toUserResponse(session.User),
	})
}

// Logout revokes the current session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	err := h.authService.Logout(c.Request().Context(), middleware.SessionToken(c))
	metrics.AuthAttemptsTotal.WithLabelValues("logout", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	c.SetCookie(h.expiredCookie())
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) sessionCookie(token string, expires time.Time) *http.Cookie {
	maxAge := int(expires.Sub(h.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
