package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/ErenKizilay/parroton/internal/model"
)

// Parameters stores action inputs and outputs, partitioned by
// customer#testCase with action#parameter sort keys.
type Parameters struct {
	repo *Repository
}

// BatchCreate persists a set of parameters.
func (s *Parameters) BatchCreate(ctx context.Context, parameters []*model.Parameter) error {
	return batchPut[model.Parameter](ctx, s.repo.db, parameters)
}

// Get fetches one parameter.
func (s *Parameters) Get(ctx context.Context, customerID, testCaseID, actionID, id string) (*model.Parameter, error) {
	return getItem[model.Parameter](ctx, s.repo.db,
		model.CompositeKey(customerID, testCaseID), model.CompositeKey(actionID, id))
}

// ListByAction returns an action's parameters of one type, optionally
// narrowed to a location kind.
func (s *Parameters) ListByAction(ctx context.Context, customerID, testCaseID, actionID string, pt model.ParameterType, kind model.LocationKind) ([]*model.Parameter, error) {
	scopes := []scope{
		sortKeyPrefix(actionID + "#"),
		func(db *gorm.DB) *gorm.DB { return db.Where("parameter_type = ?", pt) },
	}
	if kind != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("location_kind = ?", kind)
		})
	}
	return listAll[model.Parameter](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), scopes...)
}

// ListAllInputs returns every input parameter of an action, the set replay
// evaluates per step.
func (s *Parameters) ListAllInputs(ctx context.Context, customerID, testCaseID, actionID string) ([]*model.Parameter, error) {
	return s.ListByAction(ctx, customerID, testCaseID, actionID, model.ParameterInput, "")
}

// QueryByPath returns an action's parameters of one type whose location
// path starts with the given prefix. Autocomplete expands partial path
// expressions with it.
func (s *Parameters) QueryByPath(ctx context.Context, customerID, testCaseID, actionID string, pt model.ParameterType, pathPrefix string) ([]*model.Parameter, error) {
	return listAll[model.Parameter](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID),
		sortKeyPrefix(actionID+"#"),
		func(db *gorm.DB) *gorm.DB { return db.Where("parameter_type = ?", pt) },
		func(db *gorm.DB) *gorm.DB { return db.Where("location_path LIKE ?", pathPrefix+"%") },
	)
}

// UpdateExpression replaces a parameter's value expression; an empty
// expression clears it, reverting replay to the recorded literal.
func (s *Parameters) UpdateExpression(ctx context.Context, customerID, testCaseID, actionID, id, expression string) (*model.Parameter, error) {
	parameter, err := s.Get(ctx, customerID, testCaseID, actionID, id)
	if err != nil {
		return nil, err
	}
	parameter.ValueExpression = expression
	return putItem[model.Parameter](ctx, s.repo.db, parameter)
}
