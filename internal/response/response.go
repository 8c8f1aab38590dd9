// Package response is the unified API envelope.
package response

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/apperr"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	CodeSuccess = 0

	MsgSuccess = "success"
)

// Success returns a 200 envelope wrapping data.
func Success(c *fiber.Ctx, data any) error {
	return c.JSON(Response{
		Code:    CodeSuccess,
		Message: MsgSuccess,
		Data:    data,
	})
}

// Failure maps an application error to its HTTP status and returns the
// envelope with the status as its code.
func Failure(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	return c.Status(status).JSON(Response{
		Code:    status,
		Message: err.Error(),
	})
}

func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindProcessing:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
