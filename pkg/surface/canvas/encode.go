package canvas

import (
	"context"
	"fmt"
	"io"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/render"
	"github.com/phn/lineid-plot/pkg/surface"
)

// Formats supported by Encode.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Encode renders the figure in the given format and writes it to w. PDF
// output requires rsvg-convert.
func Encode(ctx context.Context, w io.Writer, f *Figure, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = RenderSVG(f, WithEmbeddedFont())
	case FormatPNG:
		data, err = RenderPNG(f)
	case FormatPDF:
		var svg []byte
		if svg, err = RenderSVG(f, WithEmbeddedFont()); err == nil {
			data, err = render.ToPDF(ctx, svg)
		}
	default:
		return lerrors.New(lerrors.ErrCodeInvalidFormat, "unsupported format %q (use svg, png or pdf)", format)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// Factory creates canvas figures of a fixed size. It implements
// surface.Factory.
type Factory struct {
	Width, Height float64
}

var _ surface.Factory = Factory{}

// NewFigure implements surface.Factory.
func (f Factory) NewFigure() (surface.Figure, error) {
	w, h := f.Width, f.Height
	if w == 0 && h == 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	if w <= 0 || h <= 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "figure size must be positive, got %vx%v", w, h)
	}
	return New(WithSize(w, h)), nil
}
