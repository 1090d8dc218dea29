package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docchat-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the
// standard JSON error envelope. Fiber errors keep their status code;
// everything else becomes a 500. Failures are reported through the system
// logger: client errors at warn, server errors at error.
func ErrorHandlerMiddleware(sysLogger logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		details := map[string]interface{}{
			"status": code,
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		}
		if code >= fiber.StatusInternalServerError {
			sysLogger.Error("HTTP", "Request failed", details)
		} else {
			sysLogger.Warn("HTTP", "Request rejected", details)
		}

		return ctx.Status(code).JSON(ErrorResponse(message))
	}
}
