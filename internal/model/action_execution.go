package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

const TableNameActionExecution = "t_action_execution"

// QueryParam is one query string pair sent during an execution.
type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryParams is the JSON column holding the sent query string.
type QueryParams []QueryParam

// Scan implements sql.Scanner.
func (q *QueryParams) Scan(src any) error { return scanJSON(q, src) }

// Value implements driver.Valuer.
func (q QueryParams) Value() (driver.Value, error) { return valueJSON(q) }

// ActionExecution records one HTTP call outcome within a run. Append-only,
// one per (run, action).
type ActionExecution struct {
	Keyed
	CustomerID   string      `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	TestCaseID   string      `gorm:"column:test_case_id;size:64;not null" json:"test_case_id"`
	RunID        string      `gorm:"column:run_id;size:64;not null" json:"run_id"`
	ActionID     string      `gorm:"column:action_id;size:64;not null" json:"action_id"`
	ID           string      `gorm:"column:id;size:64;not null" json:"id"`
	StatusCode   int         `gorm:"column:status_code;not null" json:"status_code"`
	Error        string      `gorm:"column:error;type:text" json:"error,omitempty"`
	RequestBody  JSONValue   `gorm:"column:request_body;type:text" json:"request_body"`
	ResponseBody JSONValue   `gorm:"column:response_body;type:text" json:"response_body"`
	QueryParams  QueryParams `gorm:"column:query_params;type:text" json:"query_params,omitempty"`
	StartedAt    int64       `gorm:"column:started_at;not null;index:idx_execution_started_at" json:"started_at"`
	FinishedAt   int64       `gorm:"column:finished_at" json:"finished_at"`
	Timestamps
}

func (*ActionExecution) TableName() string {
	return TableNameActionExecution
}

// Keys derives the composite key: customer#testCase#run -> execution.
func (e *ActionExecution) Keys() (string, string) {
	return CompositeKey(e.CustomerID, e.TestCaseID, e.RunID), e.ID
}

// NewActionExecution builds an execution record for a run and action.
func NewActionExecution(run *Run, actionID string) *ActionExecution {
	return &ActionExecution{
		CustomerID: run.CustomerID,
		TestCaseID: run.TestCaseID,
		RunID:      run.ID,
		ActionID:   actionID,
		ID:         uuid.NewString(),
	}
}
