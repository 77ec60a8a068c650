package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/api/dto"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthenticationEntryPoint renders the response for requests that reach a
// protected route without ever establishing an authenticated context. It
// writes the error envelope straight onto the response instead of raising
// through the dispatcher, because no handler ran to raise from.
type AuthenticationEntryPoint struct {
	logger *zap.Logger
}

// NewAuthenticationEntryPoint constructs the entry point.
func NewAuthenticationEntryPoint(logger *zap.Logger) *AuthenticationEntryPoint {
	return &AuthenticationEntryPoint{logger: logger}
}

// Commence logs the request URL and a fixed diagnostic note, then writes the
// unauthenticated error envelope with status 401.
func (p *AuthenticationEntryPoint) Commence(c *fiber.Ctx, cause error) error {
	p.logger.Info("authentication entry point",
		zap.String("url", c.OriginalURL()),
		zap.String("reason", cause.Error()))
	p.logger.Info("authentication entry point: token is expired or not present")

	kind := apperrors.KindUnauthenticated
	response := dto.NewErrorResponse(kind.ErrorCode(), cause.Error())
	return c.Status(kind.HTTPStatus()).JSON(response)
}
