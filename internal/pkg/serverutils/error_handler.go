package serverutils

import (
	"errors"

	"chatbot-be/internal/pkg/apperror"
	"chatbot-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const msgInternal = "Internal server error"

func ErrorResponse(detail string) fiber.Map {
	return fiber.Map{"detail": detail}
}

// NewErrorHandler renders every error as {"detail": ...}. Unknown errors are
// logged and hidden behind a generic 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, detail := resolve(err)

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err,
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(detail))
	}
}

// ErrorHandlerMiddleware converts errors returned by downstream handlers before
// other middleware sees them, so spans and access logs record the final status.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := NewErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}

func resolve(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode(), appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, msgInternal
}
