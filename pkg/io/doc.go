// Package io reads and writes the files the lineid command works with.
//
// # Spectrum files
//
// A spectrum is a text file with two numeric columns, wavelength and
// flux, one sample per line. Columns are separated by commas or by
// whitespace. Lines starting with '#' are comments, and a single
// non-numeric header row is skipped:
//
//	# HST/COS segment A
//	wave,flux
//	1240.0,0.13
//	1240.1,-0.41
//
// Use [ReadSpectrumCSV] for any io.Reader or [ImportSpectrum] for a path.
// [WriteSpectrumCSV] produces files in the same format.
//
// # Line lists
//
// Line lists are comma-separated, since labels often contain spaces. The
// columns are position, label and an optional font size:
//
//	1242.80,N V
//	1260.42,Si II,10
//
// # Job files
//
// A job file is TOML. It names the spectrum, lists the lines to label in
// [[line]] tables and tunes the layout in a [layout] table whose keys
// match the JSON names of [pipeline.Options]:
//
//	spectrum = "spectrum.csv"
//
//	[layout]
//	backend = "gonumplot"
//	label_size = 10.0
//	max_iter = 500
//
//	[[line]]
//	position = 1242.80
//	label = "N V"
//
//	[[line]]
//	position = 1260.42
//	label = "Si II"
//	extend = false
//
// Relative spectrum paths are resolved against the job file's directory.
// Unknown keys are rejected so that typos do not go unnoticed.
//
// [pipeline.Options]: github.com/phn/lineid-plot/pkg/pipeline.Options
package io
