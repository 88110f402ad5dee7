package lineid

import (
	lerrors "github.com/phn/lineid-plot/pkg/errors"
)

// Broadcast expands a per-feature parameter to length n. A single value is
// repeated n times; a slice of exactly n values is copied. Any other length
// is an INVALID_SHAPE error naming the parameter.
func Broadcast[T any](name string, vals []T, n int) ([]T, error) {
	if err := lerrors.ValidateShape(name, len(vals), n); err != nil {
		return nil, err
	}
	out := make([]T, n)
	if len(vals) == 1 {
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	}
	copy(out, vals)
	return out, nil
}
