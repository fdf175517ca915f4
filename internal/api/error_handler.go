package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// domainErrors maps known domain errors to a status and the message shown
// to clients. Order matters only for wrapped errors matching several entries.
var domainErrors = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Please login first!"},
	{domain.ErrForbidden, http.StatusForbidden, "Not authorized"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{domain.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "Wrong password"},
	{domain.ErrMissingFields, http.StatusBadRequest, "Email and password are required"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Role must be buyer or seller"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "Amount is required"},
	{domain.ErrInvalidImage, http.StatusBadRequest, "Image must be an image file within the size limit"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "Too many requests, try again later"},
	{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "Image storage is not configured"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			return de.status, de.msg
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server error"
}
