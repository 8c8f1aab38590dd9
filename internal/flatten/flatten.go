// Package flatten converts nested JSON values to flat path-indexed maps and
// back, and resolves value provenance across a sequence of such maps.
package flatten

import (
	"fmt"
)

// PrefixStyle selects the path-naming convention of a flattened index.
type PrefixStyle int

const (
	// PrefixOutput labels paths as $.<action>.output.<key>..., used to index
	// a response body for provenance lookups and context queries.
	PrefixOutput PrefixStyle = iota
	// PrefixBare labels paths as $.<key>..., used to index a standalone
	// request body before it is attached to an action.
	PrefixBare
	// PrefixInput labels paths as $.<action>.input.<key>..., used to label a
	// request body for assertion generation.
	PrefixInput
)

// Index maps a synthetic path string to a scalar JSON leaf value.
type Index map[string]any

// Flatten walks a JSON value and indexes every leaf by its accumulated path.
// Object keys append ".key", array elements append "[index]"; container
// values are never inserted, only leaves.
func Flatten(actionName string, style PrefixStyle, value any) Index {
	result := Index{}
	walk(actionName, style, value, "", result)
	return result
}

func walk(actionName string, style PrefixStyle, value any, prefix string, result Index) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			walk(actionName, style, val, childPrefix(actionName, style, prefix, key), result)
		}
	case []any:
		for i, val := range v {
			walk(actionName, style, val, fmt.Sprintf("%s[%d]", prefix, i), result)
		}
	default:
		result[prefix] = value
	}
}

func childPrefix(actionName string, style PrefixStyle, prefix, key string) string {
	if prefix != "" {
		return prefix + "." + key
	}
	switch style {
	case PrefixOutput:
		return fmt.Sprintf("$.%s.output.%s", actionName, key)
	case PrefixInput:
		return fmt.Sprintf("$.%s.input.%s", actionName, key)
	default:
		return "$." + key
	}
}
