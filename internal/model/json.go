package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue stores an arbitrary JSON value in a single column.
// The zero value scans and marshals as JSON null.
type JSONValue struct {
	V any
}

// JSON wraps v for storage.
func JSON(v any) JSONValue {
	return JSONValue{V: v}
}

// IsNull reports whether the wrapped value is JSON null.
func (j JSONValue) IsNull() bool {
	return j.V == nil
}

// IsArray reports whether the wrapped value is a JSON array.
func (j JSONValue) IsArray() bool {
	_, ok := j.V.([]any)
	return ok
}

// Value implements driver.Valuer.
func (j JSONValue) Value() (driver.Value, error) {
	data, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (j *JSONValue) Scan(src any) error {
	if src == nil {
		j.V = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, &j.V)
	case string:
		return json.Unmarshal([]byte(data), &j.V)
	default:
		return fmt.Errorf("cannot scan %T into JSONValue", src)
	}
}

// MarshalJSON implements json.Marshaler.
func (j JSONValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.V)
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONValue) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.V)
}

func scanJSON(dst any, src any) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}

func valueJSON(src any) (driver.Value, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
