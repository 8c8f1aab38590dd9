package flatten

import "reflect"

// Resolve searches prior traffic indexes for a path whose value equals the
// given one and returns that path as a reference expression. Indexes are
// scanned most recent first, so a value produced by several earlier
// exchanges is attributed to the latest one.
func Resolve(value any, indexes []Index) (string, bool) {
	for i := len(indexes) - 1; i >= 0; i-- {
		for path, indexed := range indexes[i] {
			if reflect.DeepEqual(indexed, value) {
				return path, true
			}
		}
	}
	return "", false
}
