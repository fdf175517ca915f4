package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	now   func() time.Time
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, now: time.Now, log: log}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the present fields of patch. Email is not re-checked
// for uniqueness here; the store's unique index rejects collisions.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	if patch.Password != nil {
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		user.Password = hash
	}
	user.UpdatedAt = s.now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}
