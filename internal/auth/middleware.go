package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for the rest of the request.
// It carries the claims from the one verification pass so nothing downstream
// re-verifies the signature.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// EntryPoint renders the failure for requests that never establish an
// authenticated context. It runs outside the normal error dispatch.
type EntryPoint interface {
	Commence(c *fiber.Ctx, cause error) error
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	validator *Validator
	users     repository.UserRepository
	entry     EntryPoint
}

// NewMiddleware constructs the bearer-token filter.
func NewMiddleware(validator *Validator, users repository.UserRepository, entry EntryPoint) *Middleware {
	return &Middleware{validator: validator, users: users, entry: entry}
}

// Handle enforces authentication for protected routes. Requests without a
// verifiable token are handed to the entry point; a verified token whose
// user id no longer resolves surfaces through the error taxonomy instead.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return m.entry.Commence(c, errors.New("missing authorization header"))
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return m.entry.Commence(c, errors.New("invalid authorization header"))
	}

	claims, err := m.validator.Verify(parts[1])
	if err != nil {
		return m.entry.Commence(c, err)
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID())
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewTokenUserNotFound(fmt.Sprintf("user id %s not found", claims.UserID()))
		}
		return apperrors.NewInternalError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
