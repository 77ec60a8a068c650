package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// RequireRole ensures the authenticated principal has one of the allowed
// roles. An authenticated caller without sufficient rights gets an
// authorization-denied failure, not an unauthenticated one.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewAuthorizationDenied("access denied")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewAuthorizationDenied("access denied")
		}
		return c.Next()
	}
}
