package logic

import (
	"context"
	"regexp"
	"strings"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// AutoCompleteLogic suggests path expression completions while a user types
// one into the editor. The strategy is picked from how deep the partial
// expression already is: action names first, then the input/output fork,
// then the stored parameter paths of the referenced action.
type AutoCompleteLogic struct {
	ctx context.Context
}

func NewAutoCompleteLogic(ctx context.Context) *AutoCompleteLogic {
	return &AutoCompleteLogic{ctx: ctx}
}

// AutoCompleteReq describes the editor state.
type AutoCompleteReq struct {
	TestCaseID        string `json:"test_case_id"`
	SourceActionOrder *int   `json:"source_action_order"`
	LatestInput       string `json:"latest_input"`
}

// typePrefixRe captures everything through the input/output segment so the
// remainder can be matched against stored parameter paths.
var typePrefixRe = regexp.MustCompile(`^((.*).(output|input)\.)`)

func (l *AutoCompleteLogic) Suggest(customerID string, req *AutoCompleteReq) ([]string, error) {
	input := req.LatestInput
	switch strings.Count(input, ".") {
	case 0:
		return []string{}, nil
	case 1:
		return l.actionNames(customerID, req)
	case 2:
		parts := strings.Split(input, ".")
		return []string{
			parts[0] + "." + parts[1] + ".input",
			parts[0] + "." + parts[1] + ".output",
		}, nil
	default:
		return l.parameterPaths(customerID, req)
	}
}

// actionNames completes "$.<partial>" with the actions an expression at the
// source position may reference, i.e. every earlier action.
func (l *AutoCompleteLogic) actionNames(customerID string, req *AutoCompleteReq) ([]string, error) {
	beforeOrder := 1000
	if req.SourceActionOrder != nil {
		beforeOrder = *req.SourceActionOrder
	}
	actions, err := svc.Ctx.Repo.Actions().ListPrevious(l.ctx, customerID, req.TestCaseID, beforeOrder)
	if err != nil {
		return nil, err
	}
	suggestions := make([]string, 0, len(actions))
	for _, action := range actions {
		suggestions = append(suggestions, "$."+action.Name)
	}
	return suggestions, nil
}

// parameterPaths completes "$.<action>.<input|output>.<partial>" from the
// stored parameters of the referenced action.
func (l *AutoCompleteLogic) parameterPaths(customerID string, req *AutoCompleteReq) ([]string, error) {
	input := req.LatestInput
	parameterType := model.ParameterInput
	if strings.Contains(input, "output.") {
		parameterType = model.ParameterOutput
	}

	targetActionName, ok := substringBetween(input, "$.", ".")
	if !ok {
		return nil, apperr.Validation("expression %q does not reference an action", input)
	}
	action, err := svc.Ctx.Repo.Actions().GetByName(l.ctx, customerID, req.TestCaseID, targetActionName)
	if err != nil {
		return nil, err
	}

	pathPrefix := "$."
	if match := typePrefixRe.FindStringSubmatch(input); match != nil {
		pathPrefix = "$." + strings.TrimPrefix(input, match[1])
	}
	parameters, err := svc.Ctx.Repo.Parameters().QueryByPath(l.ctx, customerID, req.TestCaseID,
		action.ID, parameterType, pathPrefix)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(input, ".")
	resultPrefix := parts[0] + "." + parts[1] + "." + parts[2]
	suggestions := make([]string, 0, len(parameters))
	for _, p := range parameters {
		suggestions = append(suggestions, resultPrefix+"."+strings.ReplaceAll(p.LocationPath, "$.", ""))
	}
	return suggestions, nil
}

func substringBetween(input, start, end string) (string, bool) {
	_, after, found := strings.Cut(input, start)
	if !found {
		return "", false
	}
	before, _, found := strings.Cut(after, end)
	if !found {
		return "", false
	}
	return before, true
}
