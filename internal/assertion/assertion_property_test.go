package assertion

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/ErenKizilay/parroton/internal/model"
)

// TestProperty_NegateFlipsOutcome checks that toggling negate flips the
// outcome of every comparable equality and ordering comparison.
func TestProperty_NegateFlipsOutcome(t *testing.T) {
	comparisons := []model.ComparisonType{
		model.EqualTo,
		model.GreaterThan,
		model.GreaterThanOrEqualTo,
		model.LessThan,
		model.LessThanOrEqualTo,
	}

	rapid.Check(t, func(t *rapid.T) {
		left := float64(rapid.IntRange(-100, 100).Draw(t, "left"))
		right := float64(rapid.IntRange(-100, 100).Draw(t, "right"))
		ct := rapid.SampledFrom(comparisons).Draw(t, "comparison")

		plain := Check(model.NewAssertion("c", "tc",
			model.ItemFromValue(left), model.ItemFromValue(right), ct, false), nil)
		negated := Check(model.NewAssertion("c", "tc",
			model.ItemFromValue(left), model.ItemFromValue(right), ct, true), nil)

		if plain.Success == negated.Success {
			t.Fatalf("%s(%v, %v): negate did not flip outcome", ct, left, right)
		}
	})
}

// TestProperty_FailureAlwaysCarriesMessage checks that a failed result is
// never silent.
func TestProperty_FailureAlwaysCarriesMessage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		left := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "left")
		right := rapid.StringMatching(`[A-Z0-9]{9,12}`).Draw(t, "right")

		result := Check(model.NewAssertion("c", "tc",
			model.ItemFromValue(left), model.ItemFromValue(right), model.EqualTo, false), nil)

		if result.Success {
			t.Fatalf("distinct strings compared equal: %q vs %q", left, right)
		}
		if result.Message == "" {
			t.Fatal("failed result has no message")
		}
	})
}
