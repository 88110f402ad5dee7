// Package lineid implements the pure parts of spectral line labelling:
// the one-dimensional label de-overlap engine, the figure-fraction box
// placement mapper, unique identifier assignment and signal interpolation.
//
// Nothing in this package talks to a rendering surface. The orchestration
// that draws labels, measures them and moves them lives in package layout.
//
// # De-overlap
//
// [AdjustBoxes] takes box centres sorted ascending along the shared axis,
// their widths in the same units, and the valid domain. It sweeps the
// boxes left to right and nudges any box whose centre is closer to a
// neighbour than the average of the two widths:
//
//	res, err := lineid.AdjustBoxes(
//	    []float64{10, 10.1}, []float64{0.5, 0.5}, 0, 20,
//	    lineid.WithMaxIter(1000),
//	)
//	// res.Positions == [10 10.625]
//
// The run stops when a full sweep makes no change or when the iteration
// budget is spent. Running out of budget is not an error; inspect
// [AdjustResult.Converged] when residual overlap matters.
//
// # Identifiers
//
// [UniqueLabels] turns repeated label texts into retrieval keys:
//
//	lineid.UniqueLabels([]string{"N V", "Si II", "Si II"})
//	// ["N V", "Si II_num_2", "Si II_num_1"]
//
// [ConnectorIDs] derives the key of each label's connector line.
package lineid
