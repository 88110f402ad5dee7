package canvas

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/fonts"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	ticks bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithoutPNGTicks omits axis ticks and tick labels.
func WithoutPNGTicks() PNGOption {
	return func(r *pngRenderer) { r.ticks = false }
}

var black = color.RGBA{A: 255}

// RenderPNG draws the figure and rasterizes it.
func RenderPNG(f *Figure, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, ticks: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}
	if err := f.Draw(); err != nil {
		return nil, err
	}

	p := &painter{
		dc:    gg.NewContext(int(math.Ceil(f.width*r.scale)), int(math.Ceil(f.height*r.scale))),
		scale: r.scale,
		h:     f.height,
	}
	p.dc.SetColor(surface.ColorOr(f.background, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	p.dc.Clear()

	for _, ax := range f.axes {
		if err := p.axes(ax, r.ticks); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

// painter maps y-up figure pixels onto a scaled y-down gg context.
type painter struct {
	dc    *gg.Context
	scale float64
	h     float64
}

func (p *painter) pt(q geom.Point) (float64, float64) {
	return q.X * p.scale, (p.h - q.Y) * p.scale
}

func (p *painter) stroke(s surface.LineStyle) {
	p.dc.SetColor(surface.ColorOr(s.Color, black))
	p.dc.SetLineWidth(s.Width * p.scale)
	if len(s.Dashes) > 0 {
		d := make([]float64, len(s.Dashes))
		for i, v := range s.Dashes {
			d[i] = v * s.Width * p.scale
		}
		p.dc.SetDash(d...)
	} else {
		p.dc.SetDash()
	}
	p.dc.Stroke()
	p.dc.SetDash()
}

func (p *painter) line(a, b geom.Point, s surface.LineStyle) {
	x0, y0 := p.pt(a)
	x1, y1 := p.pt(b)
	p.dc.DrawLine(x0, y0, x1, y1)
	p.stroke(s)
}

func (p *painter) text(s string, size float64, c color.Color, center geom.Point, rotation, ax, ay float64) error {
	face, err := fonts.NewFace(size * p.scale)
	if err != nil {
		return err
	}
	x, y := p.pt(center)
	p.dc.Push()
	p.dc.SetFontFace(face)
	p.dc.SetColor(c)
	if rotation != 0 {
		p.dc.RotateAbout(gg.Radians(-rotation), x, y)
	}
	p.dc.DrawStringAnchored(s, x, y, ax, ay)
	p.dc.Pop()
	return nil
}

func (p *painter) axes(ax *Axes, ticks bool) error {
	tr, err := ax.dataTransform()
	if err != nil {
		return err
	}
	pr := ax.PixelRect()
	x0, y1 := p.pt(pr.Min)
	x1, y0 := p.pt(pr.Max)

	p.dc.Push()
	p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	p.dc.Clip()
	for _, l := range ax.lines {
		if len(l.x) == 0 {
			continue
		}
		p.dc.NewSubPath()
		for i := range l.x {
			x, y := p.pt(tr.Apply(geom.Pt(l.x[i], l.y[i])))
			if i == 0 {
				p.dc.MoveTo(x, y)
			} else {
				p.dc.LineTo(x, y)
			}
		}
		p.stroke(l.style)
	}
	p.dc.ResetClip()
	p.dc.Pop()

	p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	p.stroke(surface.LineStyle{Color: "black", Width: 1})

	if ticks {
		if err := p.ticks(ax, tr); err != nil {
			return err
		}
	}

	for _, c := range ax.connectors {
		if c.visible {
			p.line(tr.Apply(c.from), tr.Apply(c.to), c.style)
		}
	}
	for _, a := range ax.annotations {
		if !a.visible {
			continue
		}
		st := a.style
		if st.Arrow.Style != surface.ArrowNone {
			p.line(a.arrowStart(), tr.Apply(a.xy), surface.LineStyle{Color: st.Arrow.Color, Width: st.Arrow.Width})
		}
		if err := p.text(a.text, st.FontSize, surface.ColorOr(st.Color, black), a.extent.Center(), st.Rotation, 0.5, 0.5); err != nil {
			return fmt.Errorf("draw %q: %w", a.text, err)
		}
	}
	return nil
}

func (p *painter) ticks(ax *Axes, tr geom.Affine) error {
	pr := ax.PixelRect()
	view := ax.ViewLimits()
	tick := surface.LineStyle{Color: "black", Width: 1}

	for _, t := range majorTicks(view.Min.X, view.Max.X) {
		x := tr.Apply(geom.Pt(t.Value, view.Min.Y)).X
		p.line(geom.Pt(x, pr.Min.Y), geom.Pt(x, pr.Min.Y+tickLength), tick)
		if err := p.text(t.Label, tickFontSize, black, geom.Pt(x, pr.Min.Y-tickLabelGap), 0, 0.5, 1); err != nil {
			return err
		}
	}
	for _, t := range majorTicks(view.Min.Y, view.Max.Y) {
		y := tr.Apply(geom.Pt(view.Min.X, t.Value)).Y
		p.line(geom.Pt(pr.Min.X, y), geom.Pt(pr.Min.X+tickLength, y), tick)
		if err := p.text(t.Label, tickFontSize, black, geom.Pt(pr.Min.X-tickLabelGap, y), 0, 1, 0.5); err != nil {
			return err
		}
	}
	return nil
}
