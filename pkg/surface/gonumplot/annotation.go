package gonumplot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// labelPad is the padding around label text, relative to font size.
const labelPad = 0.1

// Annotation is a label drawn by the label layer of an Axes. It
// implements surface.Annotation, surface.Repositioner and
// surface.TextPositioner.
type Annotation struct {
	id      string
	text    string
	xy      geom.Point
	xytext  geom.Point
	style   surface.AnnotationStyle
	visible bool

	extent geom.Rect
	drawn  bool
}

var (
	_ surface.Annotation     = (*Annotation)(nil)
	_ surface.Repositioner   = (*Annotation)(nil)
	_ surface.TextPositioner = (*Annotation)(nil)
)

func (a *Annotation) ID() string               { return a.id }
func (a *Annotation) SetID(id string)          { a.id = id }
func (a *Annotation) Text() string             { return a.text }
func (a *Annotation) SetText(text string)      { a.text = text }
func (a *Annotation) Anchor() geom.Point       { return a.xy }
func (a *Annotation) TextPosition() geom.Point { return a.xytext }

func (a *Annotation) SetColor(color string)       { a.style.Color = color }
func (a *Annotation) SetArrowColor(color string)  { a.style.Arrow.Color = color }
func (a *Annotation) SetVisible(visible bool)     { a.visible = visible }
func (a *Annotation) SetRotation(degrees float64) { a.style.Rotation = degrees }

// Style returns the effective style.
func (a *Annotation) Style() surface.AnnotationStyle { return a.style }

// SupportsReposition implements surface.Repositioner.
func (a *Annotation) SupportsReposition() bool { return true }

// Reposition moves the text horizontally to x in data coordinates. The
// extent is remeasured by the next Draw.
func (a *Annotation) Reposition(x float64) error {
	a.xytext.X = x
	return nil
}

// SetTextPosition implements surface.TextPositioner.
func (a *Annotation) SetTextPosition(p geom.Point) error {
	a.xytext = p
	return nil
}

// WindowExtent implements surface.Annotation.
func (a *Annotation) WindowExtent() (geom.Rect, error) {
	if !a.drawn {
		return geom.Rect{}, surface.ErrNotDrawn
	}
	return a.extent, nil
}

// textStyle returns the unrotated gonum text style for the label.
func (a *Annotation) textStyle() text.Style {
	return text.Style{
		Color:   surface.ColorOr(a.style.Color, color.RGBA{A: 255}),
		Font:    font.From(plotter.DefaultFont, vg.Points(a.style.FontSize)),
		XAlign:  text.XCenter,
		YAlign:  text.YCenter,
		Handler: plot.DefaultTextHandler,
	}
}

// measure computes the rotated, aligned text box in figure points.
func (a *Annotation) measure(tr geom.Affine) {
	sty := a.textStyle()
	pad := 2 * labelPad * a.style.FontSize
	w := float64(sty.Width(a.text)) + pad
	h := float64(sty.Height(a.text)) + pad
	w, h = geom.RotatedSize(w, h, a.style.Rotation)
	a.extent = alignBox(tr.Apply(a.xytext), w, h, a.style.HAlign, a.style.VAlign)
	a.drawn = true
}

func alignBox(pos geom.Point, w, h float64, ha surface.HAlign, va surface.VAlign) geom.Rect {
	var r geom.Rect
	switch ha {
	case surface.AlignLeft:
		r.Min.X = pos.X
	case surface.AlignRight:
		r.Min.X = pos.X - w
	default:
		r.Min.X = pos.X - w/2
	}
	switch va {
	case surface.AlignBottom:
		r.Min.Y = pos.Y
	case surface.AlignTop:
		r.Min.Y = pos.Y - h
	default:
		r.Min.Y = pos.Y - h/2
	}
	r.Max = r.Min.Add(geom.Pt(w, h))
	return r
}

// Connector is a straight line drawn by the label layer. It implements
// surface.Connector.
type Connector struct {
	id       string
	from, to geom.Point
	style    surface.LineStyle
	visible  bool
}

var _ surface.Connector = (*Connector)(nil)

func (c *Connector) ID() string                           { return c.id }
func (c *Connector) SetID(id string)                      { c.id = id }
func (c *Connector) Points() (geom.Point, geom.Point)     { return c.from, c.to }
func (c *Connector) SetColor(color string)                { c.style.Color = color }
func (c *Connector) SetLineStyle(style surface.LineStyle) { c.style = style }
func (c *Connector) SetVisible(visible bool)              { c.visible = visible }

// Style returns the current line style.
func (c *Connector) Style() surface.LineStyle { return c.style }
