package service

import (
	"context"

	"github.com/localmarket/offers-service/internal/domain"
	"github.com/localmarket/offers-service/internal/repository"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

// ProfileUpdateInput describes a partial profile update. The target user is
// always the authenticated caller; there is no cross-user mutation path.
type ProfileUpdateInput struct {
	Name      *string
	Phone     *string
	Longitude *float64
	Latitude  *float64
}

// ProfileService reads and updates the caller's own profile.
type ProfileService struct {
	users repository.UserRepository
}

// NewProfileService constructs the service.
func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user not found")
	}
	return user, nil
}

// Update applies a partial update to the caller's profile. Omitted fields
// keep their stored values; a half-supplied coordinate pair is ignored.
func (s *ProfileService) Update(ctx context.Context, userID int64, input ProfileUpdateInput) (*domain.User, error) {
	patch := repository.ProfilePatch{
		Name:  input.Name,
		Phone: input.Phone,
	}
	if input.Longitude != nil && input.Latitude != nil {
		location, err := domain.NewGeoPoint(*input.Longitude, *input.Latitude)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		patch.Location = &location
	}

	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user not found")
	}
	return user, nil
}
