package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func runRequireSeller(t *testing.T, user *domain.User) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		SetSession(c, user, "")
	}

	called := false
	handler := RequireSeller()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRequireSeller_Allows(t *testing.T) {
	rec, called := runRequireSeller(t, &domain.User{ID: "s1", Role: domain.RoleSeller})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected seller through, got %d", rec.Code)
	}
}

func TestRequireSeller_ForbidsBuyer(t *testing.T) {
	rec, called := runRequireSeller(t, &domain.User{ID: "b1", Role: domain.RoleBuyer})
	if called {
		t.Fatal("should not reach next handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireSeller_NoSession(t *testing.T) {
	rec, called := runRequireSeller(t, nil)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireSeller_ForbidsUnknownRole(t *testing.T) {
	rec, called := runRequireSeller(t, &domain.User{ID: "x1", Role: domain.Role("admin")})
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown role, got %d", rec.Code)
	}
}

func TestRequireRole_AllowsListedRoles(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetSession(c, &domain.User{ID: "b1", Role: domain.RoleBuyer}, "")

	called := false
	err := RequireRole(domain.RoleBuyer, domain.RoleSeller)(func(echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil || !called {
		t.Fatalf("expected buyer through, called=%v err=%v", called, err)
	}
}
