package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/logic"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/response"
)

// RunHandler serves the replay routes.
type RunHandler struct{}

func NewRunHandler() *RunHandler {
	return &RunHandler{}
}

// Start launches a replay and returns the in-progress run immediately.
// POST /api/test-cases/:id/run
func (h *RunHandler) Start(c *fiber.Ctx) error {
	run, err := logic.NewRunLogic(c.UserContext()).
		Start(middleware.GetCustomerID(c), c.Params("id"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, run)
}

// List returns a test case's runs, most recent first.
// GET /api/test-cases/:id/runs
func (h *RunHandler) List(c *fiber.Ctx) error {
	runs, err := logic.NewRunLogic(c.UserContext()).
		List(middleware.GetCustomerID(c), c.Params("id"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, runs)
}

// Get returns one run with its assertion results.
// GET /api/test-cases/:id/runs/:runId
func (h *RunHandler) Get(c *fiber.Ctx) error {
	run, err := logic.NewRunLogic(c.UserContext()).
		Get(middleware.GetCustomerID(c), c.Params("id"), c.Params("runId"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, run)
}

// ListExecutions returns the recorded HTTP calls of a run.
// GET /api/test-cases/:id/runs/:runId/action-executions
func (h *RunHandler) ListExecutions(c *fiber.Ctx) error {
	executions, err := logic.NewRunLogic(c.UserContext()).
		ListExecutions(middleware.GetCustomerID(c), c.Params("id"), c.Params("runId"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, executions)
}
