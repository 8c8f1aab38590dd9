package store

import (
	"context"

	"github.com/ErenKizilay/parroton/internal/model"
)

// Assertions stores the checks of a test case, partitioned by
// customer#testCase.
type Assertions struct {
	repo *Repository
}

// BatchCreate persists a set of assertions.
func (s *Assertions) BatchCreate(ctx context.Context, assertions []*model.Assertion) error {
	return batchPut[model.Assertion](ctx, s.repo.db, assertions)
}

// Put persists one assertion, created or edited by hand.
func (s *Assertions) Put(ctx context.Context, a *model.Assertion) (*model.Assertion, error) {
	return putItem[model.Assertion](ctx, s.repo.db, a)
}

// Get fetches one assertion.
func (s *Assertions) Get(ctx context.Context, customerID, testCaseID, id string) (*model.Assertion, error) {
	return getItem[model.Assertion](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), id)
}

// List returns every assertion of a test case.
func (s *Assertions) List(ctx context.Context, customerID, testCaseID string) ([]*model.Assertion, error) {
	return listAll[model.Assertion](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID))
}

// Delete removes one assertion.
func (s *Assertions) Delete(ctx context.Context, customerID, testCaseID, id string) error {
	_, err := deleteItem[model.Assertion](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), id)
	return err
}
