package lineid

import (
	lerrors "github.com/phn/lineid-plot/pkg/errors"
)

// Engine defaults.
const (
	DefaultMaxIter              = 1000
	DefaultAdjustFactor         = 0.35
	DefaultFactorDecrement      = 3.0
	DefaultFactorDecrementPoint = 0.75
	edgeInflation               = 1.01
)

// AdjustOption tunes AdjustBoxes.
type AdjustOption func(*adjuster)

type adjuster struct {
	maxIter   int
	factor    float64
	decrement float64
	fdp       float64
}

// WithMaxIter caps the number of feature examinations. Zero leaves every
// position unchanged.
func WithMaxIter(n int) AdjustOption { return func(a *adjuster) { a.maxIter = n } }

// WithAdjustFactor sets the step size as a fraction of the required
// separation.
func WithAdjustFactor(f float64) AdjustOption { return func(a *adjuster) { a.factor = f } }

// WithFactorDecrement sets the divisor applied to the step size once the
// decrement point is reached.
func WithFactorDecrement(d float64) AdjustOption { return func(a *adjuster) { a.decrement = d } }

// WithFactorDecrementPoint sets the fraction of the iteration budget after
// which the step size is reduced.
func WithFactorDecrementPoint(p float64) AdjustOption { return func(a *adjuster) { a.fdp = p } }

// AdjustResult is the outcome of an AdjustBoxes run.
type AdjustResult struct {
	// Positions holds the adjusted box centres, index-aligned with the input.
	Positions []float64
	// Changed is true if at least one box was moved during the run.
	Changed bool
	// Converged is true if the last sweep moved nothing. False means the
	// iteration budget ran out first and some overlap may remain.
	Converged bool
	// Iterations counts feature examinations, not sweeps.
	Iterations int
}

// AdjustBoxes spreads label boxes along one axis so that neighbouring
// centres are at least the average of their widths apart.
//
// positions must be sorted ascending and widths must be index-aligned with
// them, in the same units. Every adjusted position stays within
// [left, right]. The input slices are not modified.
func AdjustBoxes(positions, widths []float64, left, right float64, opts ...AdjustOption) (AdjustResult, error) {
	a := adjuster{
		maxIter:   DefaultMaxIter,
		factor:    DefaultAdjustFactor,
		decrement: DefaultFactorDecrement,
		fdp:       DefaultFactorDecrementPoint,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if err := a.validate(positions, widths, left, right); err != nil {
		return AdjustResult{}, err
	}
	return a.run(positions, widths, left, right), nil
}

func (a *adjuster) validate(positions, widths []float64, left, right float64) error {
	if err := lerrors.ValidateCount("positions", len(positions), "widths", len(widths)); err != nil {
		return err
	}
	if a.maxIter < 0 {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "max_iter must not be negative, got %d", a.maxIter)
	}
	if err := lerrors.ValidatePositive("adjust_factor", a.factor); err != nil {
		return err
	}
	if err := lerrors.ValidatePositive("factor_decrement", a.decrement); err != nil {
		return err
	}
	if err := lerrors.ValidateFraction("fd_p", a.fdp); err != nil {
		return err
	}
	if err := lerrors.ValidateFinite("left edge", left); err != nil {
		return err
	}
	if err := lerrors.ValidateFinite("right edge", right); err != nil {
		return err
	}
	if left > right {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "left edge %v is beyond right edge %v", left, right)
	}
	for i := range positions {
		if err := lerrors.ValidateFinite("position", positions[i]); err != nil {
			return err
		}
		if err := lerrors.ValidateFinite("width", widths[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *adjuster) run(positions, widths []float64, left, right float64) AdjustResult {
	n := len(positions)
	p := make([]float64, n)
	copy(p, positions)

	res := AdjustResult{Positions: p}
	factor := a.factor
	threshold := a.fdp * float64(a.maxIter)
	reduced := false

	for {
		moved := false
		for i := 0; i < n; i++ {
			if res.Iterations >= a.maxIter {
				return res
			}

			var diff1, sep1, diff2, sep2 float64
			if i > 0 {
				diff1 = p[i] - p[i-1]
				sep1 = (widths[i] + widths[i-1]) / 2
			} else {
				diff1 = p[i] - left + widths[i]*edgeInflation
				sep1 = widths[i]
			}
			// The second-to-last box is measured against the right edge
			// as well as the last one.
			if i < n-2 {
				diff2 = p[i+1] - p[i]
				sep2 = (widths[i] + widths[i+1]) / 2
			} else {
				diff2 = right + widths[i]*edgeInflation - p[i]
				sep2 = widths[i]
			}

			if diff1 < sep1 || diff2 < sep2 {
				if p[i] == left {
					diff1 = 0
				}
				if p[i] == right {
					diff2 = 0
				}
				if diff2 > diff1 {
					p[i] += sep2 * factor
					if p[i] > right {
						p[i] = right
					}
				} else {
					p[i] -= sep1 * factor
					if p[i] < left {
						p[i] = left
					}
				}
				moved = true
				res.Changed = true
			}

			res.Iterations++
			if !reduced && float64(res.Iterations) >= threshold {
				factor /= a.decrement
				reduced = true
			}
		}
		if !moved {
			res.Converged = true
			return res
		}
	}
}
