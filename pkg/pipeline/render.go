package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/layout"
	"github.com/phn/lineid-plot/pkg/observability"
	"github.com/phn/lineid-plot/pkg/surface"
	"github.com/phn/lineid-plot/pkg/surface/canvas"
	"github.com/phn/lineid-plot/pkg/surface/gonumplot"
)

// Render exports a laid-out figure in every requested format.
func Render(ctx context.Context, res *layout.Result, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var data []byte
		if format == FormatJSON {
			data, err = MarshalPlacements(res.Features)
		} else {
			data, err = encodeFigure(ctx, res.Figure, format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func encodeFigure(ctx context.Context, fig surface.Figure, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch f := fig.(type) {
	case *canvas.Figure:
		if err := canvas.Encode(ctx, &buf, f, format); err != nil {
			return nil, err
		}
	case *gonumplot.Figure:
		if err := f.Encode(&buf, format); err != nil {
			return nil, err
		}
	default:
		return nil, lerrors.New(lerrors.ErrCodeUnsupported, "cannot export figures of type %T", fig)
	}
	return buf.Bytes(), nil
}
