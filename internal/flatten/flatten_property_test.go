package flatten

import (
	"reflect"
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// genScalar draws a JSON leaf value.
func genScalar(t *rapid.T, label string) any {
	switch rapid.IntRange(0, 3).Draw(t, label+"_kind") {
	case 0:
		return rapid.StringMatching(`[a-zA-Z0-9]{1,12}`).Draw(t, label+"_s")
	case 1:
		return float64(rapid.IntRange(-1000, 1000).Draw(t, label+"_n"))
	case 2:
		return rapid.Bool().Draw(t, label+"_b")
	default:
		return nil
	}
}

// genObject draws a non-empty JSON object. Arrays only hold objects or
// scalars, never other arrays, and no container is empty, matching the shape
// of flattened API traffic.
func genObject(t *rapid.T, depth int) map[string]any {
	keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,6}`), 1, 4, rapid.ID).Draw(t, "keys")
	obj := make(map[string]any, len(keys))
	for _, key := range keys {
		switch kind := rapid.IntRange(0, 3).Draw(t, "val_kind"); {
		case kind == 0 && depth > 0:
			obj[key] = genObject(t, depth-1)
		case kind == 1 && depth > 0:
			n := rapid.IntRange(1, 3).Draw(t, "arr_len")
			arr := make([]any, n)
			for i := range arr {
				if rapid.Bool().Draw(t, "arr_obj") {
					arr[i] = genObject(t, depth-1)
				} else {
					arr[i] = genScalar(t, "arr_el")
				}
			}
			obj[key] = arr
		default:
			obj[key] = genScalar(t, "leaf")
		}
	}
	return obj
}

// TestProperty_FlattenReconstructRoundTrip checks that flattening a document
// and rebuilding it from the resulting (path, value) pairs yields the
// original document.
func TestProperty_FlattenReconstructRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := genObject(t, 2)

		index := Flatten("", PrefixBare, doc)
		pairs := make([]PathValue, 0, len(index))
		for path, value := range index {
			pairs = append(pairs, PathValue{Path: path, Value: value})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Path < pairs[j].Path })

		rebuilt := Reconstruct(pairs)
		if !reflect.DeepEqual(doc, rebuilt) {
			t.Fatalf("round trip mismatch:\n original: %#v\n rebuilt:  %#v", doc, rebuilt)
		}
	})
}

// TestProperty_ResolveFindsEveryFlattenedLeaf checks that every leaf of a
// flattened response is attributed to some path when its own index is
// searched.
func TestProperty_ResolveFindsEveryFlattenedLeaf(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := genObject(t, 2)
		index := Flatten("act", PrefixOutput, doc)

		for path, value := range index {
			resolved, found := Resolve(value, []Index{index})
			if !found {
				t.Fatalf("leaf at %s not resolved", path)
			}
			if !reflect.DeepEqual(index[resolved], value) {
				t.Fatalf("resolved path %s carries a different value", resolved)
			}
		}
	})
}
