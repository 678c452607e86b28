package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/docclassify/internal/common"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return v
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeAppError maps an application error onto a status code. Only the
// messages of client errors are echoed back.
func writeAppError(c *fiber.Ctx, err error) error {
	var appErr *common.AppError
	hasApp := errors.As(err, &appErr)

	switch {
	case errors.Is(err, common.ErrInvalidInput):
		msg := "invalid input"
		if hasApp {
			msg = appErr.Message
		}
		return writeError(c, fiber.StatusBadRequest, common.CodeInvalidInput, msg)
	case errors.Is(err, common.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, common.CodeNotFound, "document not found")
	case errors.Is(err, common.ErrOCR):
		return writeError(c, fiber.StatusUnprocessableEntity, common.CodeOCR, "text could not be recognized")
	case errors.Is(err, common.ErrValidation):
		return writeError(c, fiber.StatusInternalServerError, common.CodeValidation, "extracted fields failed validation")
	case errors.Is(err, common.ErrDatabase):
		return writeError(c, fiber.StatusInternalServerError, common.CodeDatabase, "document could not be stored")
	case errors.Is(err, common.ErrStorage):
		return writeError(c, fiber.StatusInternalServerError, common.CodeStorage, "source file could not be archived")
	default:
		return writeError(c, fiber.StatusInternalServerError, common.CodeInternal, "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, common.CodeInternal, "internal server error")
		}
	}
}
