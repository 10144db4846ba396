package middleware

import (
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Error:   utils.StatusMessage(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Error:   constants.ErrMsgInternalError,
			Message: err.Error(),
		})
	}
}

// handleServiceError answers expected rejections with the plain text bodies
// webhook callers look for.
func handleServiceError(c *fiber.Ctx, err service.Error) error {
	status := constants.GetHTTPStatus(err.Code)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(Response{
			Error:   constants.ErrMsgInternalError,
			Message: err.Error(),
		})
	}

	return c.Status(status).SendString(constants.GetErrorBody(err.Code))
}
