package store

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/model"
)

// Actions stores the ordered steps of a test case, partitioned by
// customer#testCase.
type Actions struct {
	repo *Repository
}

// BatchCreate persists a set of actions.
func (s *Actions) BatchCreate(ctx context.Context, actions []*model.Action) error {
	return batchPut[model.Action](ctx, s.repo.db, actions)
}

// Get fetches one action.
func (s *Actions) Get(ctx context.Context, customerID, testCaseID, id string) (*model.Action, error) {
	return getItem[model.Action](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), id)
}

// List returns every action of a test case in replay order.
func (s *Actions) List(ctx context.Context, customerID, testCaseID string) ([]*model.Action, error) {
	actions, err := listAll[model.Action](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID))
	if err != nil {
		return nil, err
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Order < actions[j].Order })
	return actions, nil
}

// ListPrevious returns the actions ordered before the given position, in
// replay order. Autocomplete uses it to offer only referencable actions.
func (s *Actions) ListPrevious(ctx context.Context, customerID, testCaseID string, beforeOrder int) ([]*model.Action, error) {
	actions, err := listAll[model.Action](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID),
		func(db *gorm.DB) *gorm.DB { return db.Where("sequence < ?", beforeOrder) })
	if err != nil {
		return nil, err
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Order < actions[j].Order })
	return actions, nil
}

// GetByName finds an action by name.
func (s *Actions) GetByName(ctx context.Context, customerID, testCaseID, name string) (*model.Action, error) {
	var action model.Action
	err := s.repo.db.WithContext(ctx).
		Where("partition_key = ? AND name = ?", model.CompositeKey(customerID, testCaseID), name).
		Take(&action).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("action %q not found", name)
		}
		return nil, apperr.Internal("get action by name: %v", err)
	}
	return &action, nil
}

// Delete removes one action and queues cleanup of its parameters.
func (s *Actions) Delete(ctx context.Context, customerID, testCaseID, id string) error {
	previous, err := deleteItem[model.Action](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), id)
	if err != nil {
		return err
	}
	if previous != nil {
		s.repo.emit(actionDeleted{action: previous})
	}
	return nil
}
