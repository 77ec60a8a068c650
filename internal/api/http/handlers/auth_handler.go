package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/service"
	"github.com/spec-kit/auth-service/internal/validation"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthHandler exposes the register, login, and refresh endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return malformedBody()
	}

	v := validation.New()
	v.RequireNonEmpty("name", req.Name)
	v.RequireEmail("email", req.Email)
	v.RequireMinLength("password", req.Password, 8)
	if err := v.Err(); err != nil {
		return err
	}

	user, pair, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.NewTokenPairResponse(pair),
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return malformedBody()
	}

	v := validation.New()
	v.RequireNonEmpty("email", req.Email)
	v.RequireNonEmpty("password", req.Password)
	if err := v.Err(); err != nil {
		return err
	}

	user, pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.NewTokenPairResponse(pair),
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return malformedBody()
	}

	v := validation.New()
	v.RequireNonEmpty("refreshToken", req.RefreshToken)
	if err := v.Err(); err != nil {
		return err
	}

	_, pair, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"auth": dto.NewTokenPairResponse(pair),
		},
	})
}

func malformedBody() error {
	return apperrors.NewValidationError([]apperrors.FieldViolation{
		{Field: "body", Message: "request body is not valid JSON"},
	})
}
