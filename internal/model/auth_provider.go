package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

const TableNameAuthProvider = "t_auth_provider"

// AuthHeaderValue is one credential header captured from a recording.
type AuthHeaderValue struct {
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

// AuthHeaders maps header name to its captured value.
type AuthHeaders map[string]AuthHeaderValue

// Scan implements sql.Scanner.
func (h *AuthHeaders) Scan(src any) error { return scanJSON(h, src) }

// Value implements driver.Valuer.
func (h AuthHeaders) Value() (driver.Value, error) { return valueJSON(h) }

// StringSet is a JSON column holding a set of ids.
type StringSet []string

// Scan implements sql.Scanner.
func (s *StringSet) Scan(src any) error { return scanJSON(s, src) }

// Value implements driver.Valuer.
func (s StringSet) Value() (driver.Value, error) { return valueJSON(s) }

// Contains reports set membership.
func (s StringSet) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Add inserts v if absent and returns the updated set.
func (s StringSet) Add(v string) StringSet {
	if s.Contains(v) {
		return s
	}
	return append(s, v)
}

// Remove deletes v if present and returns the updated set. Removing an
// absent member is a no-op, which keeps unlinking idempotent.
func (s StringSet) Remove(v string) StringSet {
	out := s[:0]
	for _, item := range s {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

// AuthenticationProvider is a customer-scoped credential bundle keyed by the
// base URL (scheme+host) it was captured from.
type AuthenticationProvider struct {
	Keyed
	CustomerID        string      `gorm:"column:customer_id;size:64;not null" json:"customer_id"`
	ID                string      `gorm:"column:id;size:64;not null" json:"id"`
	Name              string      `gorm:"column:name;size:256;not null" json:"name"`
	BaseURL           string      `gorm:"column:base_url;size:512;not null;index:idx_auth_provider_base_url" json:"base_url"`
	HeadersByName     AuthHeaders `gorm:"column:headers_by_name;type:text" json:"headers_by_name"`
	LinkedTestCaseIDs StringSet   `gorm:"column:linked_test_case_ids;type:text" json:"linked_test_case_ids,omitempty"`
	Timestamps
}

func (*AuthenticationProvider) TableName() string {
	return TableNameAuthProvider
}

// Keys derives the composite key: customer -> provider.
func (p *AuthenticationProvider) Keys() (string, string) {
	return p.CustomerID, p.ID
}

// NewAuthenticationProvider builds a provider with a fresh id.
func NewAuthenticationProvider(customerID, name, baseURL string, headers AuthHeaders, linked StringSet) *AuthenticationProvider {
	return &AuthenticationProvider{
		CustomerID:        customerID,
		ID:                uuid.NewString(),
		Name:              name,
		BaseURL:           baseURL,
		HeadersByName:     headers,
		LinkedTestCaseIDs: linked,
	}
}
