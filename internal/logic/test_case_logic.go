package logic

import (
	"context"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/har"
	"github.com/ErenKizilay/parroton/internal/inference"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/store"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// TestCaseLogic drives test case inference and CRUD.
type TestCaseLogic struct {
	ctx context.Context
}

func NewTestCaseLogic(ctx context.Context) *TestCaseLogic {
	return &TestCaseLogic{ctx: ctx}
}

// UploadTestCaseReq is the multipart upload payload.
type UploadTestCaseReq struct {
	CustomerID      string
	Name            string
	Description     string
	ExcludedPaths   []string
	AuthProviderIDs []string
	HAR             []byte
}

// Upload parses the capture and infers a complete test case from it.
func (l *TestCaseLogic) Upload(req *UploadTestCaseReq) (*model.TestCase, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name must not be empty")
	}
	if len(req.HAR) == 0 {
		return nil, apperr.Validation("a HAR file must be provided")
	}
	file, err := har.Parse(req.HAR)
	if err != nil {
		return nil, err
	}
	return svc.Ctx.Inference.BuildTestCase(l.ctx, inference.Capture{
		CustomerID:        req.CustomerID,
		Name:              req.Name,
		Description:       req.Description,
		ExcludedPathParts: req.ExcludedPaths,
		AuthProviderIDs:   req.AuthProviderIDs,
		Log:               &file.Log,
	})
}

// FilterPaths previews which capture URLs survive the exclusion filters.
func (l *TestCaseLogic) FilterPaths(harData []byte, excludedPaths []string) ([]string, error) {
	if len(harData) == 0 {
		return nil, apperr.Validation("a HAR file must be provided")
	}
	file, err := har.Parse(harData)
	if err != nil {
		return nil, err
	}
	entries := har.FilterEntries(excludedPaths, &file.Log)
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		urls = append(urls, entry.Request.URL)
	}
	return urls, nil
}

func (l *TestCaseLogic) Get(customerID, id string) (*model.TestCase, error) {
	return svc.Ctx.Repo.TestCases().Get(l.ctx, customerID, id)
}

func (l *TestCaseLogic) List(customerID, keyword, nextKey string) (store.Page[*model.TestCase], error) {
	return svc.Ctx.Repo.TestCases().List(l.ctx, customerID, keyword, nextKey)
}

// UpdateTestCaseReq carries the editable fields; empty fields keep their
// stored value.
type UpdateTestCaseReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (l *TestCaseLogic) Update(customerID, id string, req *UpdateTestCaseReq) (*model.TestCase, error) {
	return svc.Ctx.Repo.TestCases().Update(l.ctx, customerID, id, req.Name, req.Description)
}

func (l *TestCaseLogic) Delete(customerID, id string) error {
	return svc.Ctx.Repo.TestCases().Delete(l.ctx, customerID, id)
}
