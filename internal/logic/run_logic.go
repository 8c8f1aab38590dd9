package logic

import (
	"context"

	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// RunLogic starts replays and reads their history.
type RunLogic struct {
	ctx context.Context
}

func NewRunLogic(ctx context.Context) *RunLogic {
	return &RunLogic{ctx: ctx}
}

// Start launches a fire-and-forget replay and returns the in-progress run.
func (l *RunLogic) Start(customerID, testCaseID string) (*model.Run, error) {
	return svc.Ctx.Replay.Start(l.ctx, customerID, testCaseID)
}

func (l *RunLogic) List(customerID, testCaseID string) ([]*model.Run, error) {
	return svc.Ctx.Repo.Runs().List(l.ctx, customerID, testCaseID)
}

func (l *RunLogic) Get(customerID, testCaseID, id string) (*model.Run, error) {
	return svc.Ctx.Repo.Runs().Get(l.ctx, customerID, testCaseID, id)
}

// ListExecutions returns the recorded HTTP calls of a run in start order.
func (l *RunLogic) ListExecutions(customerID, testCaseID, runID string) ([]*model.ActionExecution, error) {
	return svc.Ctx.Repo.ActionExecutions().List(l.ctx, customerID, testCaseID, runID)
}
