package errors

import (
	"math"
	"sort"
)

// ValidateShape checks that a per-feature parameter of length got can be
// paired with n features: either a single broadcastable value or exactly n.
func ValidateShape(name string, got, n int) error {
	if got == 1 || got == n {
		return nil
	}
	return New(ErrCodeInvalidShape, "%s must be scalar or of length %d, got %d", name, n, got)
}

// ValidateCount checks that two sequences that pair up element-wise have
// the same length.
func ValidateCount(nameA string, a int, nameB string, b int) error {
	if a != b {
		return New(ErrCodeCountMismatch, "%s and %s must have the same length (%d != %d)", nameA, nameB, a, b)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidatePositive rejects values that are not strictly positive and finite.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateFraction checks that v lies in the closed unit interval.
func ValidateFraction(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be between 0 and 1, got %v", name, v)
	}
	return nil
}

// ValidateSamples checks a sampled signal: x and y must pair up, hold at
// least one sample, contain only finite values, and x must be
// non-decreasing. Callers that accept unordered samples sort them before
// validating.
func ValidateSamples(x, y []float64) error {
	if err := ValidateCount("x", len(x), "y", len(y)); err != nil {
		return err
	}
	if len(x) == 0 {
		return New(ErrCodeInvalidInput, "at least one sample is required")
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return New(ErrCodeInvalidInput, "sample %d is not finite", i)
		}
	}
	if !sort.Float64sAreSorted(x) {
		return New(ErrCodeInvalidInput, "x samples must be non-decreasing")
	}
	return nil
}
