package render

import (
	"bytes"
	"context"
	"os/exec"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
)

// converter is the external tool used for conversions.
const converter = "rsvg-convert"

// Available reports whether rsvg-convert can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string) ([]byte, error) {
	if !Available() {
		return nil, lerrors.New(lerrors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.CommandContext(ctx, converter, "-f", format)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "%s: %s", converter, errBuf.String())
	}
	return out.Bytes(), nil
}
