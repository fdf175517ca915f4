package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// UserService manages the caller's own profile.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error)
}
