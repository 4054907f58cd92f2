package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/localmarket/offers-service/internal/auth"
	"github.com/localmarket/offers-service/internal/config"
	"github.com/localmarket/offers-service/internal/domain"
	"github.com/localmarket/offers-service/internal/repository"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

// SignupInput describes registration payload. Role is fixed at signup.
type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.UserRole
	Phone     string
	Longitude *float64
	Latitude  *float64
}

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	denylist   *auth.TokenDenylist
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, denylist *auth.TokenDenylist) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		denylist:   denylist,
		bcryptCost: cfg.BcryptCost,
	}
}

// Signup creates a new account and returns a signed token embedding the role.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, time.Time, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || email == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email, password required")
	}
	if !input.Role.Valid() {
		return nil, "", time.Time{}, apperrors.NewValidationError("role must be Buyer or Seller")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if existing != nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateResource("user already exists")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Phone:        input.Phone,
	}
	if input.Longitude != nil && input.Latitude != nil {
		location, err := domain.NewGeoPoint(*input.Longitude, *input.Latitude)
		if err != nil {
			return nil, "", time.Time{}, apperrors.NewValidationError(err.Error())
		}
		user.Location = &location
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", time.Time{}, apperrors.NewDuplicateResource("user already exists")
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates by email and password. Missing account and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.denylist.Revoke(ctx, tokenID, time.Until(expiresAt))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
