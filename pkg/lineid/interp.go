package lineid

import (
	"gonum.org/v1/gonum/interp"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
)

// Interpolate evaluates the sampled signal (x, y) at each of at by linear
// interpolation. Points outside the sampled range take the value of the
// nearest end sample.
//
// x must be non-decreasing; samples are never re-sorted. Where several
// samples share an x value the last one wins. A single sample yields a
// constant signal.
func Interpolate(x, y, at []float64) ([]float64, error) {
	if err := lerrors.ValidateSamples(x, y); err != nil {
		return nil, err
	}

	xs, ys := dedupeSamples(x, y)
	out := make([]float64, len(at))
	if len(xs) == 1 {
		for i := range out {
			out[i] = ys[0]
		}
		return out, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "fit samples")
	}
	for i, v := range at {
		out[i] = pl.Predict(v)
	}
	return out, nil
}

// dedupeSamples collapses runs of equal x into one sample holding the last
// y of the run. The fitter requires strictly increasing abscissae.
func dedupeSamples(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if n := len(xs); n > 0 && xs[n-1] == x[i] {
			ys[n-1] = y[i]
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
