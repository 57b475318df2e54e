// Package response writes the JSON envelopes of the local tracker API.
package response

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error codes
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeRateLimited     = "RATE_LIMITED"
	CodeServiceError    = "SERVICE_ERROR"
	CodeSubmissionError = "SUBMISSION_ERROR"
	CodeBackendError    = "BACKEND_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Error(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromStatus writes an error envelope whose code is derived from status.
// Used for errors raised by Fiber itself, such as unknown routes.
func FromStatus(c *fiber.Ctx, status int, message string) error {
	code := CodeServiceError
	switch {
	case status == fiber.StatusNotFound:
		code = CodeNotFound
	case status == fiber.StatusUnauthorized:
		code = CodeUnauthorized
	case status == fiber.StatusTooManyRequests:
		code = CodeRateLimited
	case status >= 400 && status < 500:
		code = CodeValidationError
	}
	return Error(c, status, code, message, nil)
}

func ValidationError(c *fiber.Ctx, message string, details interface{}) error {
	return Error(c, fiber.StatusBadRequest, CodeValidationError, message, details)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, CodeNotFound, message, nil)
}

// RateLimited rejects the request and tells the client when the window
// resets. A non-positive retryAfter omits the header.
func RateLimited(c *fiber.Ctx, retryAfter time.Duration) error {
	if secs := int(retryAfter.Seconds()); secs > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
	}
	return Error(c, fiber.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded", nil)
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, CodeServiceError, message, nil)
}

// SubmissionError reports a submission the separation backend rejected or
// never received.
func SubmissionError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, CodeSubmissionError, message, nil)
}

// BackendError reports a backend read, such as a stem download, that failed
func BackendError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, CodeBackendError, message, nil)
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Accepted(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusAccepted).JSON(data)
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
