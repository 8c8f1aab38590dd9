package store

import (
	"context"
	"sort"

	"github.com/ErenKizilay/parroton/internal/model"
)

// ActionExecutions stores per-action replay outcomes, partitioned by
// customer#testCase#run.
type ActionExecutions struct {
	repo *Repository
}

// Create persists an execution record.
func (s *ActionExecutions) Create(ctx context.Context, e *model.ActionExecution) (*model.ActionExecution, error) {
	return putItem[model.ActionExecution](ctx, s.repo.db, e)
}

// List returns a run's execution records in start order.
func (s *ActionExecutions) List(ctx context.Context, customerID, testCaseID, runID string) ([]*model.ActionExecution, error) {
	executions, err := listAll[model.ActionExecution](ctx, s.repo.db,
		model.CompositeKey(customerID, testCaseID, runID))
	if err != nil {
		return nil, err
	}
	sort.Slice(executions, func(i, j int) bool { return executions[i].StartedAt < executions[j].StartedAt })
	return executions, nil
}
