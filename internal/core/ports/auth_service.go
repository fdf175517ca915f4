package ports

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Session is an issued token together with the account it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService issues and verifies session tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Authenticate verifies token and resolves the user it was issued to.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenRevoker remembers token ids that must no longer be accepted.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
