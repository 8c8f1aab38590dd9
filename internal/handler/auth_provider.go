package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/logic"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/response"
)

// AuthProviderHandler serves the credential bundle routes.
type AuthProviderHandler struct{}

func NewAuthProviderHandler() *AuthProviderHandler {
	return &AuthProviderHandler{}
}

// List filters providers by linked test case and base URL.
// GET /api/auth-providers?test_case_id=&base_url=
func (h *AuthProviderHandler) List(c *fiber.Ctx) error {
	providers, err := logic.NewAuthProviderLogic(c.UserContext()).
		List(middleware.GetCustomerID(c), c.Query("test_case_id"), c.Query("base_url"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, providers)
}

// SearchByURLs returns the providers matching any of the given base URLs.
// POST /api/auth-providers/search-by-urls
func (h *AuthProviderHandler) SearchByURLs(c *fiber.Ctx) error {
	var req struct {
		BaseURLs []string `json:"base_urls"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	providers, err := logic.NewAuthProviderLogic(c.UserContext()).
		SearchByURLs(middleware.GetCustomerID(c), req.BaseURLs)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, providers)
}

// Get returns one provider.
// GET /api/auth-providers/:id
func (h *AuthProviderHandler) Get(c *fiber.Ctx) error {
	provider, err := logic.NewAuthProviderLogic(c.UserContext()).
		Get(middleware.GetCustomerID(c), c.Params("id"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, provider)
}

// Create stores a manually defined provider.
// POST /api/auth-providers
func (h *AuthProviderHandler) Create(c *fiber.Ctx) error {
	var req logic.CreateAuthProviderReq
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	provider, err := logic.NewAuthProviderLogic(c.UserContext()).
		Create(middleware.GetCustomerID(c), &req)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, provider)
}

// Delete removes a provider together with its test case links.
// DELETE /api/auth-providers/:id
func (h *AuthProviderHandler) Delete(c *fiber.Ctx) error {
	if err := logic.NewAuthProviderLogic(c.UserContext()).
		Delete(middleware.GetCustomerID(c), c.Params("id")); err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, nil)
}

// SetHeader adds or overwrites a credential header.
// PATCH /api/auth-providers/:id/headers
func (h *AuthProviderHandler) SetHeader(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	provider, err := logic.NewAuthProviderLogic(c.UserContext()).
		SetHeader(middleware.GetCustomerID(c), c.Params("id"), req.Name, req.Value)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, provider)
}

// SetHeaderEnablement toggles whether a header is sent during replay.
// PATCH /api/auth-providers/:id/headers/disabled
func (h *AuthProviderHandler) SetHeaderEnablement(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Disabled bool   `json:"disabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	provider, err := logic.NewAuthProviderLogic(c.UserContext()).
		SetHeaderEnablement(middleware.GetCustomerID(c), c.Params("id"), req.Name, req.Disabled)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, provider)
}
