package handler

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/logic"
	"github.com/ErenKizilay/parroton/internal/middleware"
	"github.com/ErenKizilay/parroton/internal/response"
)

// TestCaseHandler serves the test case routes.
type TestCaseHandler struct{}

func NewTestCaseHandler() *TestCaseHandler {
	return &TestCaseHandler{}
}

// Upload infers a test case from a multipart HAR upload.
// POST /api/test-cases
func (h *TestCaseHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Failure(c, apperr.Validation("a multipart form is required: %v", err))
	}

	req := &logic.UploadTestCaseReq{
		CustomerID:      middleware.GetCustomerID(c),
		Name:            formValue(form, "name"),
		Description:     formValue(form, "description"),
		ExcludedPaths:   splitList(formValue(form, "excluded_paths")),
		AuthProviderIDs: splitList(formValue(form, "auth_providers")),
	}
	if files := form.File["file"]; len(files) > 0 {
		data, err := readUpload(files[0])
		if err != nil {
			return response.Failure(c, apperr.Processing("reading HAR upload failed: %v", err))
		}
		req.HAR = data
	}

	testCase, err := logic.NewTestCaseLogic(c.UserContext()).Upload(req)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, testCase)
}

// FilterPaths previews the URLs that survive the exclusion filters.
// POST /api/filter-paths
func (h *TestCaseHandler) FilterPaths(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Failure(c, apperr.Validation("a multipart form is required: %v", err))
	}
	var harData []byte
	if files := form.File["file"]; len(files) > 0 {
		harData, err = readUpload(files[0])
		if err != nil {
			return response.Failure(c, apperr.Processing("reading HAR upload failed: %v", err))
		}
	}

	urls, err := logic.NewTestCaseLogic(c.UserContext()).
		FilterPaths(harData, splitList(formValue(form, "excluded_paths")))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, urls)
}

// List returns a page of test cases, optionally keyword filtered.
// GET /api/test-cases
func (h *TestCaseHandler) List(c *fiber.Ctx) error {
	page, err := logic.NewTestCaseLogic(c.UserContext()).
		List(middleware.GetCustomerID(c), c.Query("keyword"), c.Query("next_page_key"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, page)
}

// Get returns one test case.
// GET /api/test-cases/:id
func (h *TestCaseHandler) Get(c *fiber.Ctx) error {
	testCase, err := logic.NewTestCaseLogic(c.UserContext()).
		Get(middleware.GetCustomerID(c), c.Params("id"))
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, testCase)
}

// Update renames a test case or edits its description.
// PATCH /api/test-cases/:id
func (h *TestCaseHandler) Update(c *fiber.Ctx) error {
	var req logic.UpdateTestCaseReq
	if err := c.BodyParser(&req); err != nil {
		return response.Failure(c, apperr.Validation("invalid request body: %v", err))
	}
	testCase, err := logic.NewTestCaseLogic(c.UserContext()).
		Update(middleware.GetCustomerID(c), c.Params("id"), &req)
	if err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, testCase)
}

// Delete removes a test case; children are cleaned up asynchronously.
// DELETE /api/test-cases/:id
func (h *TestCaseHandler) Delete(c *fiber.Ctx) error {
	if err := logic.NewTestCaseLogic(c.UserContext()).
		Delete(middleware.GetCustomerID(c), c.Params("id")); err != nil {
		return response.Failure(c, err)
	}
	return response.Success(c, nil)
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
