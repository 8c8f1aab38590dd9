package model

import "github.com/google/uuid"

const TableNameRun = "t_run"

// RunStatus is the lifecycle state of a replay session.
// The only transition is InProgress -> Finished; there is no failed state,
// per-action errors are absorbed into their execution records.
type RunStatus string

const (
	RunInProgress RunStatus = "in_progress"
	RunFinished   RunStatus = "finished"
)

// Run is one replay session of a test case.
type Run struct {
	Keyed
	CustomerID       string           `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	TestCaseID       string           `gorm:"column:test_case_id;size:64;not null" json:"test_case_id"`
	ID               string           `gorm:"column:id;size:64;not null" json:"id"`
	Status           RunStatus        `gorm:"column:status;size:16;not null" json:"status"`
	StartedAt        int64            `gorm:"column:started_at;not null;index:idx_run_started_at" json:"started_at"`
	FinishedAt       int64            `gorm:"column:finished_at" json:"finished_at,omitempty"`
	AssertionResults AssertionResults `gorm:"column:assertion_results;type:text" json:"assertion_results,omitempty"`
	Timestamps
}

func (*Run) TableName() string {
	return TableNameRun
}

// Keys derives the composite key: customer#testCase -> run.
func (r *Run) Keys() (string, string) {
	return CompositeKey(r.CustomerID, r.TestCaseID), r.ID
}

// NewRun builds an in-progress run starting now (unix millis).
func NewRun(customerID, testCaseID string, startedAt int64) *Run {
	return &Run{
		CustomerID: customerID,
		TestCaseID: testCaseID,
		ID:         uuid.NewString(),
		Status:     RunInProgress,
		StartedAt:  startedAt,
	}
}
