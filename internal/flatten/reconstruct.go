package flatten

import (
	"regexp"
	"strconv"
	"strings"
)

// PathValue is one (path, value) pair fed to Reconstruct.
type PathValue struct {
	Path  string
	Value any
}

// arrayKeyRe matches segments of the form name[index].
var arrayKeyRe = regexp.MustCompile(`^([^\[]+)\[(\d+)\]$`)

// Reconstruct rebuilds a JSON object from a sparse list of (path, value)
// pairs, the inverse of Flatten with the bare prefix.
//
// A segment matching name[index] grows an array named name to at least
// index+1 entries; index gaps are filled with empty objects, never null,
// because the parameter list may only reference a few indices of a larger
// array. Arrays are never shrunk.
func Reconstruct(pairs []PathValue) map[string]any {
	root := map[string]any{}
	for _, pair := range pairs {
		assign(root, strings.TrimPrefix(pair.Path, "$."), pair.Value)
	}
	return root
}

func assign(root map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := root
	for i, part := range parts {
		last := i == len(parts)-1
		if match := arrayKeyRe.FindStringSubmatch(part); match != nil {
			name := match[1]
			index, _ := strconv.Atoi(match[2])
			arr, _ := current[name].([]any)
			for len(arr) <= index {
				arr = append(arr, map[string]any{})
			}
			current[name] = arr
			if last {
				arr[index] = value
				return
			}
			obj, ok := arr[index].(map[string]any)
			if !ok {
				obj = map[string]any{}
				arr[index] = obj
			}
			current = obj
			continue
		}
		if last {
			current[part] = value
			return
		}
		obj, ok := current[part].(map[string]any)
		if !ok {
			obj = map[string]any{}
			current[part] = obj
		}
		current = obj
	}
}
