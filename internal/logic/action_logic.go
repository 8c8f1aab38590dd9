package logic

import (
	"context"

	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// ActionLogic reads the inferred steps of a test case and edits their
// parameters.
type ActionLogic struct {
	ctx context.Context
}

func NewActionLogic(ctx context.Context) *ActionLogic {
	return &ActionLogic{ctx: ctx}
}

// List returns the actions of a test case in replay order.
func (l *ActionLogic) List(customerID, testCaseID string) ([]*model.Action, error) {
	return svc.Ctx.Repo.Actions().List(l.ctx, customerID, testCaseID)
}

// ListParameters returns the inputs and outputs of one action.
func (l *ActionLogic) ListParameters(customerID, testCaseID, actionID string) ([]*model.Parameter, error) {
	inputs, err := svc.Ctx.Repo.Parameters().ListByAction(l.ctx, customerID, testCaseID, actionID, model.ParameterInput, "")
	if err != nil {
		return nil, err
	}
	outputs, err := svc.Ctx.Repo.Parameters().ListByAction(l.ctx, customerID, testCaseID, actionID, model.ParameterOutput, "")
	if err != nil {
		return nil, err
	}
	return append(inputs, outputs...), nil
}

// UpdateParameterExpression sets or clears a parameter's value expression.
func (l *ActionLogic) UpdateParameterExpression(customerID, testCaseID, actionID, id, expression string) (*model.Parameter, error) {
	return svc.Ctx.Repo.Parameters().UpdateExpression(l.ctx, customerID, testCaseID, actionID, id, expression)
}
