package model

import "github.com/google/uuid"

const TableNameParameter = "t_parameter"

// ParameterType distinguishes request inputs from recorded outputs.
type ParameterType string

const (
	ParameterInput  ParameterType = "input"
	ParameterOutput ParameterType = "output"
)

// LocationKind is where a parameter lives on the wire.
type LocationKind string

const (
	LocationHeader LocationKind = "header"
	LocationCookie LocationKind = "cookie"
	LocationQuery  LocationKind = "query"
	LocationBody   LocationKind = "body"
)

// Parameter is one input or output value attached to an action.
//
// If ValueExpression is set, replay evaluates it against the execution
// context and it takes priority over the recorded literal Value. Output
// parameters never carry an expression; they only register what an action
// produced so later actions can be matched against it.
type Parameter struct {
	Keyed
	CustomerID      string        `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	TestCaseID      string        `gorm:"column:test_case_id;size:64;not null" json:"test_case_id"`
	ActionID        string        `gorm:"column:action_id;size:64;not null;index:idx_parameter_action" json:"action_id"`
	ID              string        `gorm:"column:id;size:64;not null" json:"id"`
	ParameterType   ParameterType `gorm:"column:parameter_type;size:16;not null;index:idx_parameter_type" json:"parameter_type"`
	LocationKind    LocationKind  `gorm:"column:location_kind;size:16;not null;index:idx_parameter_location" json:"location_kind"`
	LocationPath    string        `gorm:"column:location_path;size:512;not null;index:idx_parameter_path" json:"location_path"`
	Value           JSONValue     `gorm:"column:value;type:text" json:"value"`
	ValueExpression string        `gorm:"column:value_expression;size:1024" json:"value_expression,omitempty"`
	Timestamps
}

func (*Parameter) TableName() string {
	return TableNameParameter
}

// Keys derives the composite key: customer#testCase -> action#parameter.
func (p *Parameter) Keys() (string, string) {
	return CompositeKey(p.CustomerID, p.TestCaseID), CompositeKey(p.ActionID, p.ID)
}

// NewParameter builds a parameter for an action.
func NewParameter(action *Action, pt ParameterType, kind LocationKind, path string, value any, expression string) *Parameter {
	return &Parameter{
		CustomerID:      action.CustomerID,
		TestCaseID:      action.TestCaseID,
		ActionID:        action.ID,
		ID:              uuid.NewString(),
		ParameterType:   pt,
		LocationKind:    kind,
		LocationPath:    path,
		Value:           JSON(value),
		ValueExpression: expression,
	}
}
