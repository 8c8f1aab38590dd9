// Package jsonpath evaluates JSONPath expressions against the execution
// context of a test run.
package jsonpath

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/ErenKizilay/parroton/internal/model"
)

// Evaluate parses expr and queries context, returning every matching node.
func Evaluate(context any, expr string) ([]any, error) {
	parsed, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("parse expression %q: %w", expr, err)
	}
	return parsed.Get(context), nil
}

// EvaluateValue produces the runtime value of a parameter. A parameter with
// an expression is evaluated against the context; its recorded value is only
// a fallback when no expression is set. When the recorded value is an array
// the full result set is kept, otherwise only the first match matters and an
// empty result is an error so the caller can drop the parameter.
func EvaluateValue(p *model.Parameter, context any) (any, error) {
	if p.ValueExpression == "" {
		return p.Value.V, nil
	}
	results, err := Evaluate(context, p.ValueExpression)
	if err != nil {
		return nil, err
	}
	if p.Value.IsArray() {
		return results, nil
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("expression %q produces empty result", p.ValueExpression)
	}
	return results[0], nil
}
