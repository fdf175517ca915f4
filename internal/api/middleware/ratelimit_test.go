package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type countingLimiter struct {
	hits map[string]int
	err  error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.hits[key]++
	return l.hits[key] <= limit, nil
}

func hit(t *testing.T, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.7:4321"
	rec := httptest.NewRecorder()
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(e.NewContext(req, rec))
	return rec, err
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	l := &countingLimiter{hits: map[string]int{}}
	mw := RateLimit(l, "auth", 2, time.Minute, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := hit(t, mw); err != nil {
			t.Fatalf("hit %d: unexpected error %v", i, err)
		}
	}
	rec, err := hit(t, mw)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
	if l.hits["auth:10.0.0.7"] != 3 {
		t.Fatalf("unexpected keys: %v", l.hits)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mw := RateLimit(&countingLimiter{err: errors.New("redis down")}, "auth", 1, time.Minute, zerolog.Nop())

	if rec, err := hit(t, mw); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected request through, got %v %d", err, rec.Code)
	}
}
