// Package assertion evaluates stored assertions against the final context of
// a replayed test case.
package assertion

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ErenKizilay/parroton/internal/jsonpath"
	"github.com/ErenKizilay/parroton/internal/model"
)

// Check evaluates both sides of the assertion against the context and
// compares them. Supply errors surface as a failed result carrying the
// error message.
func Check(a *model.Assertion, context any) model.AssertionResult {
	left, err := supplyItem(a.Left, context)
	if err != nil {
		return model.FailureResult(a.ID, err.Error())
	}
	right, err := supplyItem(a.Right, context)
	if err != nil {
		return model.FailureResult(a.ID, err.Error())
	}
	return compare(a, left, right)
}

// supplyItem resolves one side of a comparison to a value list. A function
// wins over a plain provider; an item with neither is a configuration error.
func supplyItem(item model.AssertionItem, context any) ([]any, error) {
	if item.Function != nil {
		return supplyFunction(item.Function, context)
	}
	if item.ValueProvider != nil {
		return supplyProvider(item.ValueProvider, context)
	}
	return nil, errors.New("either function, expression or value must be provided!")
}

// supplyProvider prefers a literal value; otherwise evaluates the
// expression. A provider with neither yields the empty list.
func supplyProvider(vp *model.ValueProvider, context any) ([]any, error) {
	if vp.Value != nil {
		return []any{vp.Value.V}, nil
	}
	if vp.Expression == "" {
		return []any{}, nil
	}
	return jsonpath.Evaluate(context, vp.Expression)
}

func supplyFunction(fn *model.Function, context any) ([]any, error) {
	lists := make([][]any, 0, len(fn.Parameters))
	var supplyErrs []string
	for i := range fn.Parameters {
		values, err := supplyProvider(&fn.Parameters[i], context)
		if err != nil {
			supplyErrs = append(supplyErrs, err.Error())
			continue
		}
		lists = append(lists, values)
	}
	if len(supplyErrs) > 0 {
		return nil, errors.New(strings.Join(supplyErrs, ","))
	}
	switch fn.Operation {
	case model.OperationSum:
		total := 0.0
		for _, values := range lists {
			total += sum(values)
		}
		return []any{total}, nil
	case model.OperationAvg:
		return []any{nil}, nil
	default:
		return []any{}, nil
	}
}

// sum adds up the numeric elements of a list; non-numeric elements count
// as zero.
func sum(values []any) float64 {
	total := 0.0
	for _, v := range values {
		if n, ok := asNumber(v); ok {
			total += n
		}
	}
	return total
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func compare(a *model.Assertion, left, right []any) model.AssertionResult {
	switch a.ComparisonType {
	case model.EqualTo:
		return checkEqual(a, left, right)
	case model.Contains:
		return checkContains(a, left, right)
	case model.GreaterThan:
		return checkOrdered(a, true, false, left, right)
	case model.GreaterThanOrEqualTo:
		return checkOrdered(a, true, true, left, right)
	case model.LessThan:
		return checkOrdered(a, false, false, left, right)
	default:
		return checkOrdered(a, false, true, left, right)
	}
}

func checkEqual(a *model.Assertion, left, right []any) model.AssertionResult {
	equal := reflect.DeepEqual(left, right)
	if equal != a.Negate {
		return model.SuccessResult(a.ID)
	}
	return model.FailureResult(a.ID, fmt.Sprintf("%sexpected: %q, but got: %q",
		negatePrefix(a.Negate), asString(left), asString(right)))
}

func checkContains(a *model.Assertion, left, right []any) model.AssertionResult {
	allContained := true
	for _, r := range right {
		if !containsValue(left, r) {
			allContained = false
			break
		}
	}
	if allContained {
		return model.SuccessResult(a.ID)
	}
	if len(left) == 1 && len(right) == 1 {
		contained := strings.Contains(jsonString(left[0]), strings.Trim(jsonString(right[0]), `"`))
		if contained != a.Negate {
			return model.SuccessResult(a.ID)
		}
		return model.FailureResult(a.ID, fmt.Sprintf("%s does%s contain %s",
			asString(left), notSuffix(a.Negate), asString(right)))
	}
	return model.FailureResult(a.ID, fmt.Sprintf("%s and %s cannot be compared with contains",
		asString(left), asString(right)))
}

func checkOrdered(a *model.Assertion, greater, orEqual bool, left, right []any) model.AssertionResult {
	if len(left) != 1 || len(right) != 1 {
		return model.FailureResult(a.ID, "Lists cannot be compared as numbers!")
	}
	leftNum, leftOK := asNumber(left[0])
	rightNum, rightOK := asNumber(right[0])
	if !leftOK || !rightOK {
		return model.FailureResult(a.ID, fmt.Sprintf("%s and %s cannot be compared as numbers",
			asString(left), asString(right)))
	}
	var success bool
	switch {
	case greater && orEqual:
		success = leftNum >= rightNum
	case greater:
		success = leftNum > rightNum
	case orEqual:
		success = leftNum <= rightNum
	default:
		success = leftNum < rightNum
	}
	if success != a.Negate {
		return model.SuccessResult(a.ID)
	}
	direction := "less"
	if greater {
		direction = "greater"
	}
	qualifier := ""
	if orEqual {
		qualifier = "or equal to "
	}
	return model.FailureResult(a.ID, fmt.Sprintf("%s is%s %s than %s%s",
		asString(left), notSuffix(a.Negate), direction, qualifier, asString(right)))
}

func containsValue(list []any, value any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, value) {
			return true
		}
	}
	return false
}

// asString joins the JSON renderings of the values with commas, quote
// trimmed, for failure messages.
func asString(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strings.Trim(jsonString(v), `"`))
	}
	return strings.Join(parts, ",")
}

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func negatePrefix(negate bool) string {
	if negate {
		return "not "
	}
	return ""
}

func notSuffix(negate bool) string {
	if negate {
		return ""
	}
	return " not"
}
