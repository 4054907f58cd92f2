package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/localmarket/offers-service/internal/api/dto"
	"github.com/localmarket/offers-service/internal/auth"
	"github.com/localmarket/offers-service/internal/service"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

// UsersHandler exposes auth and profile endpoints.
type UsersHandler struct {
	auth    *service.AuthService
	profile *service.ProfileService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, profileService *service.ProfileService) *UsersHandler {
	return &UsersHandler{auth: authService, profile: profileService}
}

// Signup handles POST /auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	input := service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	}
	if req.Location != nil {
		input.Longitude = req.Location.Longitude
		input.Latitude = req.Location.Latitude
	}

	user, token, exp, err := h.auth.Signup(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user),
	})
}

// Logout handles POST /auth/logout; the presented token is revoked for its
// remaining lifetime.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.Context(), principal.TokenID, principal.TokenExpiresAt); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// GetProfile handles GET /users/profile.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.profile.Get(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateProfile handles PUT /users/profile. The target id always comes from
// the token, never from the request body.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	input := service.ProfileUpdateInput{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Location != nil {
		input.Longitude = req.Location.Longitude
		input.Latitude = req.Location.Latitude
	}

	user, err := h.profile.Update(c.Context(), principal.UserID, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
