package logic

import (
	"context"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// AssertionLogic manages the checks evaluated at the end of a run.
type AssertionLogic struct {
	ctx context.Context
}

func NewAssertionLogic(ctx context.Context) *AssertionLogic {
	return &AssertionLogic{ctx: ctx}
}

func (l *AssertionLogic) List(customerID, testCaseID string) ([]*model.Assertion, error) {
	return svc.Ctx.Repo.Assertions().List(l.ctx, customerID, testCaseID)
}

func (l *AssertionLogic) Get(customerID, testCaseID, id string) (*model.Assertion, error) {
	return svc.Ctx.Repo.Assertions().Get(l.ctx, customerID, testCaseID, id)
}

// BatchGet returns the assertions that exist among the requested ids.
func (l *AssertionLogic) BatchGet(customerID, testCaseID string, ids []string) ([]*model.Assertion, error) {
	assertions := make([]*model.Assertion, 0, len(ids))
	for _, id := range ids {
		a, err := svc.Ctx.Repo.Assertions().Get(l.ctx, customerID, testCaseID, id)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				continue
			}
			return nil, err
		}
		assertions = append(assertions, a)
	}
	return assertions, nil
}

// PutAssertionReq creates or replaces a manually edited assertion.
type PutAssertionReq struct {
	ID             string               `json:"id"`
	Left           model.AssertionItem  `json:"left"`
	Right          model.AssertionItem  `json:"right"`
	ComparisonType model.ComparisonType `json:"comparison_type"`
	Negate         bool                 `json:"negate"`
}

func (l *AssertionLogic) Put(customerID, testCaseID string, req *PutAssertionReq) (*model.Assertion, error) {
	if req.ComparisonType == "" {
		return nil, apperr.Validation("comparison_type must be provided")
	}
	a := model.NewAssertion(customerID, testCaseID, req.Left, req.Right, req.ComparisonType, req.Negate)
	if req.ID != "" {
		a.ID = req.ID
	}
	return svc.Ctx.Repo.Assertions().Put(l.ctx, a)
}

func (l *AssertionLogic) Delete(customerID, testCaseID, id string) error {
	return svc.Ctx.Repo.Assertions().Delete(l.ctx, customerID, testCaseID, id)
}

func (l *AssertionLogic) UpdateComparison(customerID, testCaseID, id string, ct model.ComparisonType) (*model.Assertion, error) {
	switch ct {
	case model.EqualTo, model.Contains, model.GreaterThan, model.GreaterThanOrEqualTo,
		model.LessThan, model.LessThanOrEqualTo:
	default:
		return nil, apperr.Validation("unknown comparison type %q", ct)
	}
	a, err := svc.Ctx.Repo.Assertions().Get(l.ctx, customerID, testCaseID, id)
	if err != nil {
		return nil, err
	}
	a.ComparisonType = ct
	return svc.Ctx.Repo.Assertions().Put(l.ctx, a)
}

func (l *AssertionLogic) UpdateNegation(customerID, testCaseID, id string, negate bool) (*model.Assertion, error) {
	a, err := svc.Ctx.Repo.Assertions().Get(l.ctx, customerID, testCaseID, id)
	if err != nil {
		return nil, err
	}
	a.Negate = negate
	return svc.Ctx.Repo.Assertions().Put(l.ctx, a)
}

// UpdateExpression rewrites the path expression on one side of the
// comparison. location is "left" or "right".
func (l *AssertionLogic) UpdateExpression(customerID, testCaseID, id, location, expression string) (*model.Assertion, error) {
	a, err := svc.Ctx.Repo.Assertions().Get(l.ctx, customerID, testCaseID, id)
	if err != nil {
		return nil, err
	}
	switch location {
	case "left":
		a.Left = model.ItemFromExpression(expression)
	case "right":
		a.Right = model.ItemFromExpression(expression)
	default:
		return nil, apperr.Validation("location must be left or right, got %q", location)
	}
	return svc.Ctx.Repo.Assertions().Put(l.ctx, a)
}
