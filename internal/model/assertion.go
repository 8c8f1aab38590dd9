package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

const TableNameAssertion = "t_assertion"

// ComparisonType enumerates the supported assertion comparisons.
type ComparisonType string

const (
	EqualTo              ComparisonType = "equal_to"
	Contains             ComparisonType = "contains"
	GreaterThan          ComparisonType = "greater_than"
	GreaterThanOrEqualTo ComparisonType = "greater_than_or_equal_to"
	LessThan             ComparisonType = "less_than"
	LessThanOrEqualTo    ComparisonType = "less_than_or_equal_to"
)

// Operation enumerates assertion functions over value providers.
type Operation string

const (
	OperationSum Operation = "sum"
	// Avg and Count are accepted but intentionally unimplemented: they
	// evaluate to null and the empty list respectively.
	OperationAvg   Operation = "avg"
	OperationCount Operation = "count"
)

// ValueProvider supplies comparison operands: either a literal JSON value or
// a path expression evaluated against the replay context.
type ValueProvider struct {
	Expression string     `json:"expression,omitempty"`
	Value      *JSONValue `json:"value,omitempty"`
}

// Function applies an operation over the values of its parameters.
type Function struct {
	Operation  Operation       `json:"operation"`
	Parameters []ValueProvider `json:"parameters"`
}

// AssertionItem is one side of a comparison: a function or a plain provider.
type AssertionItem struct {
	Function      *Function      `json:"function,omitempty"`
	ValueProvider *ValueProvider `json:"value_provider,omitempty"`
}

// Scan implements sql.Scanner.
func (a *AssertionItem) Scan(src any) error { return scanJSON(a, src) }

// Value implements driver.Valuer.
func (a AssertionItem) Value() (driver.Value, error) { return valueJSON(a) }

// ItemFromExpression builds an item over a path expression.
func ItemFromExpression(expression string) AssertionItem {
	return AssertionItem{ValueProvider: &ValueProvider{Expression: expression}}
}

// ItemFromValue builds an item over a literal value.
func ItemFromValue(value any) AssertionItem {
	v := JSON(value)
	return AssertionItem{ValueProvider: &ValueProvider{Value: &v}}
}

// ItemFromFunction builds an item over a function.
func ItemFromFunction(fn Function) AssertionItem {
	return AssertionItem{Function: &fn}
}

// Assertion is a customer and test-case scoped pass/fail check evaluated
// against the final replay context.
type Assertion struct {
	Keyed
	CustomerID     string         `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	TestCaseID     string         `gorm:"column:test_case_id;size:64;not null" json:"test_case_id"`
	ID             string         `gorm:"column:id;size:64;not null" json:"id"`
	Left           AssertionItem  `gorm:"column:left_item;type:text" json:"left"`
	Right          AssertionItem  `gorm:"column:right_item;type:text" json:"right"`
	ComparisonType ComparisonType `gorm:"column:comparison_type;size:32;not null" json:"comparison_type"`
	Negate         bool           `gorm:"column:negate;not null;default:false" json:"negate"`
	Timestamps
}

func (*Assertion) TableName() string {
	return TableNameAssertion
}

// Keys derives the composite key: customer#testCase -> assertion.
func (a *Assertion) Keys() (string, string) {
	return CompositeKey(a.CustomerID, a.TestCaseID), a.ID
}

// NewAssertion builds an assertion with a fresh id.
func NewAssertion(customerID, testCaseID string, left, right AssertionItem, ct ComparisonType, negate bool) *Assertion {
	return &Assertion{
		CustomerID:     customerID,
		TestCaseID:     testCaseID,
		ID:             uuid.NewString(),
		Left:           left,
		Right:          right,
		ComparisonType: ct,
		Negate:         negate,
	}
}

// AssertionResult is the outcome of evaluating one assertion.
// Message is populated only on failure or evaluation error.
type AssertionResult struct {
	AssertionID string `json:"assertion_id"`
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
}

// SuccessResult builds a passing result.
func SuccessResult(assertionID string) AssertionResult {
	return AssertionResult{AssertionID: assertionID, Success: true}
}

// FailureResult builds a failing result with a message.
func FailureResult(assertionID, message string) AssertionResult {
	return AssertionResult{AssertionID: assertionID, Success: false, Message: message}
}

// AssertionResults is the JSON column holding a run's final results.
type AssertionResults []AssertionResult

// Scan implements sql.Scanner.
func (r *AssertionResults) Scan(src any) error { return scanJSON(r, src) }

// Value implements driver.Valuer.
func (r AssertionResults) Value() (driver.Value, error) { return valueJSON(r) }
