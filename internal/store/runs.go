package store

import (
	"context"
	"sort"

	"github.com/ErenKizilay/parroton/internal/model"
)

// Runs stores replay sessions, partitioned by customer#testCase.
type Runs struct {
	repo *Repository
}

// Create persists a run.
func (s *Runs) Create(ctx context.Context, run *model.Run) (*model.Run, error) {
	return putItem[model.Run](ctx, s.repo.db, run)
}

// Get fetches one run.
func (s *Runs) Get(ctx context.Context, customerID, testCaseID, id string) (*model.Run, error) {
	return getItem[model.Run](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), id)
}

// List returns a test case's runs, most recent first.
func (s *Runs) List(ctx context.Context, customerID, testCaseID string) ([]*model.Run, error) {
	runs, err := listAll[model.Run](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID))
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt > runs[j].StartedAt })
	return runs, nil
}

// Finish marks a run finished with its assertion results. The run never
// transitions again afterwards.
func (s *Runs) Finish(ctx context.Context, run *model.Run, finishedAt int64, results model.AssertionResults) (*model.Run, error) {
	run.Status = model.RunFinished
	run.FinishedAt = finishedAt
	run.AssertionResults = results
	return putItem[model.Run](ctx, s.repo.db, run)
}

// Delete removes one run and queues cleanup of its executions.
func (s *Runs) Delete(ctx context.Context, customerID, testCaseID, id string) error {
	previous, err := deleteItem[model.Run](ctx, s.repo.db, model.CompositeKey(customerID, testCaseID), id)
	if err != nil {
		return err
	}
	if previous != nil {
		s.repo.emit(runDeleted{run: previous})
	}
	return nil
}
