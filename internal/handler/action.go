package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/logic"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/response"
)

// ActionHandler serves the action and parameter routes.
type ActionHandler struct{}

func NewActionHandler() *ActionHandler {
	return &ActionHandler{}
}

// List returns a test case's actions in replay order.
// GET /api/test-cases/:id/actions
func (h *ActionHandler) List(c *fiber.Ctx) error {
	actions, err := logic.NewActionLogic(c.UserContext()).
		List(middleware.GetCustomerID(c), c.Params("id"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, actions)
}

// ListParameters returns one action's inputs and outputs.
// GET /api/test-cases/:id/actions/:actionId/parameters
func (h *ActionHandler) ListParameters(c *fiber.Ctx) error {
	parameters, err := logic.NewActionLogic(c.UserContext()).
		ListParameters(middleware.GetCustomerID(c), c.Params("id"), c.Params("actionId"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, parameters)
}

// UpdateParameterExpression sets or clears a parameter's expression.
// PATCH /api/test-cases/:id/actions/:actionId/parameters/:paramId/expression
func (h *ActionHandler) UpdateParameterExpression(c *fiber.Ctx) error {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	parameter, err := logic.NewActionLogic(c.UserContext()).UpdateParameterExpression(
		middleware.GetCustomerID(c), c.Params("id"), c.Params("actionId"), c.Params("paramId"), req.Expression)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, parameter)
}
