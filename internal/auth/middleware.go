package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/localmarket/offers-service/internal/domain"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated caller as established by the token: subject
// identity plus role. Handlers receive it explicitly instead of reading raw
// request state.
type Principal struct {
	UserID int64
	Role   domain.UserRole
	// TokenID is the jti of the presented token, used for revocation.
	TokenID string
	// TokenExpiresAt bounds how long a revocation entry must live.
	TokenExpiresAt time.Time
}

// IsSeller reports whether the caller holds the seller role.
func (p *Principal) IsSeller() bool {
	return p != nil && p.Role == domain.RoleSeller
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

// AuthMiddleware validates bearer tokens and exposes the Principal.
type AuthMiddleware struct {
	tokens   *TokenManager
	denylist RevocationChecker
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, denylist RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if m.denylist.IsRevoked(c.Context(), claims.ID) {
		return apperrors.NewUnauthorized("token revoked")
	}

	principal := &Principal{
		UserID:  claims.UserID,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.TokenExpiresAt = claims.ExpiresAt.Time
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
