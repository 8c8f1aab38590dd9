package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/ErenKizilay/parroton/internal/model"
)

// TestCases stores test cases, partitioned by customer.
type TestCases struct {
	repo *Repository
}

// Create persists a test case.
func (s *TestCases) Create(ctx context.Context, tc *model.TestCase) (*model.TestCase, error) {
	return putItem[model.TestCase](ctx, s.repo.db, tc)
}

// Get fetches one test case.
func (s *TestCases) Get(ctx context.Context, customerID, id string) (*model.TestCase, error) {
	return getItem[model.TestCase](ctx, s.repo.db, customerID, id)
}

// List pages through a customer's test cases, optionally filtered by a
// keyword over the name.
func (s *TestCases) List(ctx context.Context, customerID, keyword, nextKey string) (Page[*model.TestCase], error) {
	var scopes []scope
	if keyword != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("name LIKE ?", "%"+keyword+"%")
		})
	}
	return listItems[model.TestCase](ctx, s.repo.db, customerID, nextKey, scopes...)
}

// Update replaces name and description.
func (s *TestCases) Update(ctx context.Context, customerID, id, name, description string) (*model.TestCase, error) {
	tc, err := s.Get(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		tc.Name = name
	}
	if description != "" {
		tc.Description = description
	}
	return putItem[model.TestCase](ctx, s.repo.db, tc)
}

// Delete removes a test case and queues the cascade that cleans up its
// actions, parameters, assertions, runs and auth provider links.
func (s *TestCases) Delete(ctx context.Context, customerID, id string) error {
	previous, err := deleteItem[model.TestCase](ctx, s.repo.db, customerID, id)
	if err != nil {
		return err
	}
	if previous != nil {
		s.repo.emit(testCaseDeleted{testCase: previous})
	}
	return nil
}
