package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/logic"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/response"
)

// AutoCompleteHandler serves expression completion for the editor.
type AutoCompleteHandler struct{}

func NewAutoCompleteHandler() *AutoCompleteHandler {
	return &AutoCompleteHandler{}
}

// Suggest completes a partially typed path expression.
// POST /api/expressions/auto-complete
func (h *AutoCompleteHandler) Suggest(c *fiber.Ctx) error {
	var req logic.AutoCompleteReq
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	suggestions, err := logic.NewAutoCompleteLogic(c.UserContext()).
		Suggest(middleware.GetCustomerID(c), &req)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, suggestions)
}
