package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/logic"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/response"
)

// AssertionHandler serves the assertion routes.
type AssertionHandler struct{}

func NewAssertionHandler() *AssertionHandler {
	return &AssertionHandler{}
}

// List returns every assertion of a test case.
// GET /api/test-cases/:id/assertions
func (h *AssertionHandler) List(c *fiber.Ctx) error {
	assertions, err := logic.NewAssertionLogic(c.UserContext()).
		List(middleware.GetCustomerID(c), c.Params("id"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertions)
}

// Get returns one assertion.
// GET /api/test-cases/:id/assertions/:assertionId
func (h *AssertionHandler) Get(c *fiber.Ctx) error {
	assertion, err := logic.NewAssertionLogic(c.UserContext()).
		Get(middleware.GetCustomerID(c), c.Params("id"), c.Params("assertionId"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertion)
}

// BatchGet returns the existing assertions among the requested ids.
// POST /api/test-cases/:id/assertions/batch-get
func (h *AssertionHandler) BatchGet(c *fiber.Ctx) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	assertions, err := logic.NewAssertionLogic(c.UserContext()).
		BatchGet(middleware.GetCustomerID(c), c.Params("id"), req.IDs)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertions)
}

// Put creates or replaces an assertion.
// PUT /api/test-cases/:id/assertions
func (h *AssertionHandler) Put(c *fiber.Ctx) error {
	var req logic.PutAssertionReq
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	assertion, err := logic.NewAssertionLogic(c.UserContext()).
		Put(middleware.GetCustomerID(c), c.Params("id"), &req)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertion)
}

// Delete removes one assertion.
// DELETE /api/test-cases/:id/assertions/:assertionId
func (h *AssertionHandler) Delete(c *fiber.Ctx) error {
	if err := logic.NewAssertionLogic(c.UserContext()).
		Delete(middleware.GetCustomerID(c), c.Params("id"), c.Params("assertionId")); err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, nil)
}

// UpdateComparison changes the comparison operator.
// PATCH /api/test-cases/:id/assertions/:assertionId/comparison-type
func (h *AssertionHandler) UpdateComparison(c *fiber.Ctx) error {
	var req struct {
		ComparisonType model.ComparisonType `json:"comparison_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	assertion, err := logic.NewAssertionLogic(c.UserContext()).UpdateComparison(
		middleware.GetCustomerID(c), c.Params("id"), c.Params("assertionId"), req.ComparisonType)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertion)
}

// UpdateNegation flips the negate flag.
// PATCH /api/test-cases/:id/assertions/:assertionId/negate
func (h *AssertionHandler) UpdateNegation(c *fiber.Ctx) error {
	var req struct {
		Negate bool `json:"negate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	assertion, err := logic.NewAssertionLogic(c.UserContext()).UpdateNegation(
		middleware.GetCustomerID(c), c.Params("id"), c.Params("assertionId"), req.Negate)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertion)
}

// UpdateExpression rewrites the expression on one side of the comparison.
// PATCH /api/test-cases/:id/assertions/:assertionId/:location/expression
func (h *AssertionHandler) UpdateExpression(c *fiber.Ctx) error {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	assertion, err := logic.NewAssertionLogic(c.UserContext()).UpdateExpression(
		middleware.GetCustomerID(c), c.Params("id"), c.Params("assertionId"), c.Params("location"), req.Expression)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, assertion)
}
