package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/observability"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error dispatch and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorDispatchMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorDispatchMiddleware converts every raised failure into the structured
// error envelope. A single switch over the closed taxonomy decides the
// (errorCode, status) pair; panics collapse into the unclassified kind.
func errorDispatchMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = writeErrorResponse(c, err, logger, metrics)
			}
		}()
		return c.Next()
	}
}

func writeErrorResponse(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics) error {
	authErr := apperrors.ToAuthError(err)
	kind := authErr.Kind

	// Every dispatch logs category and original message before building the
	// payload. The unclassified kind keeps its cause out of the client
	// response, so the full detail lives here only.
	if kind == apperrors.KindUnclassified {
		logger.Error("unclassified failure",
			zap.String("category", kind.String()),
			zap.Error(authErr))
	} else {
		logger.Warn("request failed",
			zap.String("category", kind.String()),
			zap.String("message", authErr.Message))
	}

	metrics.RecordError(c.Path(), c.Method(), kind.ErrorCode())

	response := dto.NewErrorResponse(kind.ErrorCode(), authErr.Message)
	for _, violation := range authErr.Violations {
		response.AddValidationError(violation.Field, violation.Message)
	}

	return c.Status(kind.HTTPStatus()).JSON(response)
}
