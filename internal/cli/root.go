// Package cli implements the lineid command-line interface.
//
// # Commands
//
//   - render: label lines on a spectrum read from a file
//   - demo: render the bundled demo spectrum
//   - serve: run an HTTP service that renders jobs posted as JSON
//   - cache: inspect or clear the artifact cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through context.Context so that library code picks it up.
package cli

import (
	"context"
	"os"

	"github.com/phn/lineid-plot/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version. main
// calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute builds the command tree and runs it with os.Args.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
