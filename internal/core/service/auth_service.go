package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// sessionClaims is the signed token payload. UserID keeps the "id" claim
// name so tokens issued by earlier deployments still verify.
type sessionClaims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and session verification.
type AuthService struct {
	users     ports.UserRepository
	revoker   ports.TokenRevoker
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewAuthService wires the service. revoker may be nil, in which case logout
// only clears the cookie.
func NewAuthService(users ports.UserRepository, revoker ports.TokenRevoker, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		users:     users,
		revoker:   revoker,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	// Read-then-write; the unique email index catches the concurrent case.
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !verifyPassword(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate verifies the token signature and expiry, rejects revoked
// tokens and loads the user the token was issued to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.log.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, domain.ErrUnauthenticated
		}
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return s.users.FindByID(ctx, userID)
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.revoker == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) parse(token string) (*sessionClaims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

func (s *AuthService) issue(user *domain.User) (*ports.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := sessionClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ports.Session{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword accepts bcrypt hashes and, for accounts created before
// hashing was introduced, plaintext.
func verifyPassword(stored, supplied string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
