package model

import "github.com/google/uuid"

const TableNameTestCase = "t_test_case"

// TestCase is a replayable API test case inferred from a traffic capture.
type TestCase struct {
	Keyed
	CustomerID  string `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	ID          string `gorm:"column:id;size:64;not null" json:"id"`
	Name        string `gorm:"column:name;size:256;not null;index:idx_test_case_name" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Timestamps
}

func (*TestCase) TableName() string {
	return TableNameTestCase
}

// Keys derives the composite key: customer -> test case.
func (t *TestCase) Keys() (string, string) {
	return t.CustomerID, t.ID
}

// NewTestCase builds a test case with a fresh id.
func NewTestCase(customerID, name, description string) *TestCase {
	return &TestCase{
		CustomerID:  customerID,
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
}
