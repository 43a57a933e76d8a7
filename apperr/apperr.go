package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is the typed error every service operation returns on failure.
// Code is a stable machine-readable identifier, Status the HTTP intent the
// boundary layer should translate it to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

func Validation(message string) *AppError {
	return New("VALIDATION_ERROR", message, fiber.StatusBadRequest)
}

func Conflict(code, message string) *AppError {
	return New(code, message, fiber.StatusConflict)
}

func NotFound(message string) *AppError {
	return New("NOT_FOUND", message, fiber.StatusNotFound)
}

func Unauthorized(code, message string) *AppError {
	return New(code, message, fiber.StatusUnauthorized)
}

func Forbidden(code, message string) *AppError {
	return New(code, message, fiber.StatusForbidden)
}

func RateLimited(message string) *AppError {
	return New("OTP_THROTTLED", message, fiber.StatusTooManyRequests)
}

func StateConflict(message string) *AppError {
	return New("INVALID_STATE", message, fiber.StatusBadRequest)
}

func External(message string, err error) *AppError {
	return &AppError{Code: "EXTERNAL_ERROR", Message: message, Status: fiber.StatusBadGateway, Err: err}
}

// Internal wraps an unexpected failure. The wrapped error is kept for
// logging but never serialized to a client.
func Internal(err error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred", Status: fiber.StatusInternalServerError, Err: err}
}

// From returns err as an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err carries the given stable code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
