package respond

import (
	"localserve/apperr"
	"localserve/logger"
	"localserve/types"

	"github.com/gofiber/fiber/v2"
)

// Error translates a service error into the uniform envelope. Internal
// errors are logged with their cause but serialized opaque.
func Error(c *fiber.Ctx, err error) error {
	appErr := apperr.From(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		logger.Error("Internal error on "+c.Path(), appErr.Err)
	}
	return c.Status(appErr.Status).JSON(types.ApiResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Status:  appErr.Status,
	})
}

// OK writes a success envelope.
func OK(c *fiber.Ctx, status int, code, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Code:    code,
		Message: message,
		Status:  status,
		Data:    data,
	})
}

// BadRequest writes a validation failure envelope.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}
