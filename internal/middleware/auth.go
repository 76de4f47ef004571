// Package middleware holds the fiber middleware guarding the API routes.
package middleware

import (
	"log"
	"strings"

	"pixpay/internal/models"
	"pixpay/internal/services/auth"
	"pixpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer token and stores the claims in the
// request locals under "claims" and "userID".
type AuthMiddleware struct {
	tokens      *utils.TokenIssuer
	authService auth.Service
}

func NewAuthMiddleware(tokens *utils.TokenIssuer, authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := m.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		log.Printf("[auth] token rejected: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	// tokens outlive deleted accounts
	if _, err := m.authService.GetUserByID(c.UserContext(), claims.UserID); err != nil {
		log.Printf("[auth] user %d from token not found", claims.UserID)
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// AdminAuthMiddleware lets through admin claims only. It must run after
// AuthMiddleware.Handler.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if claims.Role != models.RoleAdmin {
		log.Printf("[auth] user %d with role %s denied admin route %s", claims.UserID, claims.Role, c.Path())
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
// Admins pass every check.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
