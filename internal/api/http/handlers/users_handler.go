package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// UsersHandler exposes account endpoints behind the bearer middleware.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewAuthorizationDenied("access denied")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// List handles GET /users, admin only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return c.JSON(fiber.Map{"data": responses})
}
