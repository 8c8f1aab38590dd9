package model

import "github.com/google/uuid"

const TableNameAction = "t_action"

// Action is one step of a test case. Order is 0-based and defines the replay
// sequence; it is the only invariant the replay engine relies on.
type Action struct {
	Keyed
	CustomerID string `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	TestCaseID string `gorm:"column:test_case_id;size:64;not null" json:"test_case_id"`
	ID         string `gorm:"column:id;size:64;not null" json:"id"`
	Order      int    `gorm:"column:sequence;not null;index:idx_action_sequence" json:"order"`
	Name       string `gorm:"column:name;size:256;not null;index:idx_action_name" json:"name"`
	URL        string `gorm:"column:url;type:text;not null" json:"url"`
	Method     string `gorm:"column:method;size:16;not null" json:"method"`
	MimeType   string `gorm:"column:mime_type;size:128" json:"mime_type,omitempty"`
	Timestamps
}

func (*Action) TableName() string {
	return TableNameAction
}

// Keys derives the composite key: customer#testCase -> action.
func (a *Action) Keys() (string, string) {
	return CompositeKey(a.CustomerID, a.TestCaseID), a.ID
}

// NewAction builds an action with a fresh id.
func NewAction(customerID, testCaseID string, order int, name, url, method, mimeType string) *Action {
	return &Action{
		CustomerID: customerID,
		TestCaseID: testCaseID,
		ID:         uuid.NewString(),
		Order:      order,
		Name:       name,
		URL:        url,
		Method:     method,
		MimeType:   mimeType,
	}
}
