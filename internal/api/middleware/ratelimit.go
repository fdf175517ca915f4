package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
)

// Limiter decides whether one more hit for key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit throttles requests per client IP under scope. Limiter errors are
// logged and the request is let through.
func RateLimit(l Limiter, scope string, limit int, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil || limit <= 0 {
				return next(c)
			}

			ok, err := l.Allow(c.Request().Context(), scope+":"+c.RealIP(), limit, window)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
