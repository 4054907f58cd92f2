package dto

import (
	"time"

	"github.com/localmarket/offers-service/internal/domain"
)

// SignupRequest payload for new users.
type SignupRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.UserRole  `json:"role"`
	Phone    string           `json:"phone"`
	Location *LocationPayload `json:"location"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest payload; the target user comes from the token.
type UpdateProfileRequest struct {
	Name     *string          `json:"name"`
	Phone    *string          `json:"phone"`
	Location *LocationPayload `json:"location"`
}

// UserResponse is the wire shape of a user; the password hash never leaves
// the service.
type UserResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.UserRole  `json:"role"`
	Phone     string           `json:"phone,omitempty"`
	Location  *domain.GeoPoint `json:"location,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user to its wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Location:  user.Location,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
