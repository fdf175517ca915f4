package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.Session, error)
	revoked    []string
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.SessionCookie)
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.Session, error) {
			if in.Name != "Alice" || in.Email != "a@example.com" || in.Role != "seller" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.Session{
				Token:     "tok",
				ExpiresAt: now.Add(7 * 24 * time.Hour),
				User:      &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Password: "hash", Role: domain.RoleSeller},
			}, nil
		},
	}
	h := NewAuthHandler(stub, false)
	h.now = func() time.Time { return now }

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"a@example.com","password":"pw","role":"seller"}`)
	rec := httptest.NewRecorder()

	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Registered successfully" || resp["token"] != "tok" {
		t.Fatalf("unexpected payload: %v", resp)
	}
	user := resp["user"].(map[string]any)
	if user["_id"] != "u1" || user["role"] != "seller" {
		t.Fatalf("unexpected user payload: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password must never be serialised")
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "tok" || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode || cookie.MaxAge != 7*24*3600 {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
}

func TestAuthHandler_Register_ValidationFails(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, false)

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Bob"}`)
	err := h.Register(e.NewContext(req, httptest.NewRecorder()))

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_Register_PropagatesDomainError(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.Session, error) {
			return nil, domain.ErrUserExists
		},
	}, false)

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"a@example.com","password":"pw"}`)
	if err := h.Register(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookieWithoutTokenInBody(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.Session, error) {
			return &ports.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), User: &domain.User{ID: "u1", Email: email}}, nil
		},
	}, true)

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"pw"}`)
	rec := httptest.NewRecorder()
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Login successful" {
		t.Fatalf("unexpected payload: %v", resp)
	}
	if _, ok := resp["token"]; ok {
		t.Fatal("login response must not carry the token")
	}
	if cookie := sessionCookieFrom(t, rec); !cookie.Secure {
		t.Fatal("cookie must be secure when configured")
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		e := newTestEcho()
		h := NewAuthHandler(&stubAuthService{
			loginFn: func(context.Context, string, string) (*ports.Session, error) { return nil, want },
		}, false)

		req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"pw"}`)
		if err := h.Login(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{}
	h := NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetSession(c, &domain.User{ID: "u1"}, "tok")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "tok" {
		t.Fatalf("token not revoked: %v", stub.revoked)
	}
	if cookie := sessionCookieFrom(t, rec); cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("cookie not cleared: %+v", cookie)
	}
}
