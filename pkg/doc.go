// Package pkg holds the libraries behind lineid, a tool that marks features
// on a 1-D spectrum with text labels and arrows, spreading the labels
// horizontally so that they do not overlap.
//
// # Overview
//
// The libraries are layered from pure numerics up to orchestration:
//
//  1. [lineid] - The box adjustment algorithm and its helpers (label
//     uniquification, interpolation, broadcasting, coordinate mapping)
//  2. [surface] - Abstract plotting surface: figures, axes, annotations
//     and connectors, with the [surface/canvas] and [surface/gonumplot]
//     backends
//  3. [layout] - Places labels on a surface and iterates the adjustment
//     until the label boxes are disjoint
//  4. [pipeline] - Validation, defaults, caching and export used by the
//     CLI and the HTTP service
//
// Supporting packages:
//
//   - [geom]: points, rectangles and affine transforms between data,
//     axes, figure and display space
//   - [fonts]: text metrics used to measure label boxes
//   - [io]: spectrum and line list CSV files, TOML job files
//   - [cache]: file and null artifact caches
//   - [render]: SVG to PDF conversion via rsvg-convert
//   - [errors]: coded errors and input validation
//   - [observability]: hooks for layout, render, cache and HTTP events
//   - [buildinfo]: version information injected at build time
//
// # Architecture
//
//	spectrum + lines
//	       ↓
//	  [layout] places arrows and boxes on a [surface] figure
//	       ↓
//	  [lineid] AdjustBoxes spreads overlapping boxes
//	       ↓
//	  [pipeline] renders SVG/PNG/PDF/JSON and caches the result
//
// # Quick Start
//
//	res, err := layout.Run(ctx, wave, flux,
//	    []float64{1242.80, 1260.42, 1264.74},
//	    []string{"N V", "Si II", "Si II"},
//	    layout.WithLabelSize(10))
//	if err != nil {
//	    return err
//	}
//	for _, f := range res.Features {
//	    fmt.Println(f.ID, f.BoxX)
//	}
//
// [lineid]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/lineid
// [surface]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/surface
// [surface/canvas]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/surface/canvas
// [surface/gonumplot]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/surface/gonumplot
// [layout]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/pipeline
// [geom]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/geom
// [fonts]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/fonts
// [io]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/io
// [cache]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/cache
// [render]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/render
// [errors]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/phn/lineid-plot/pkg/buildinfo
package pkg
