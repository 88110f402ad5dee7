package canvas

import (
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// Annotation is a label drawn on canvas Axes. It implements
// surface.Annotation, surface.Repositioner and surface.TextPositioner.
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

func (a *Annotation) ID() string          { return a.id }
func (a *Annotation) SetID(id string)     { a.id = id }
func (a *Annotation) Text() string        { return a.text }
func (a *Annotation) SetText(text string) { a.text = text }

// Anchor implements surface.Annotation.
func (a *Annotation) Anchor() geom.Point { return a.xy }

// TextPosition implements surface.Annotation.
func (a *Annotation) TextPosition() geom.Point { return a.xytext }

// Style returns the effective style.
func (a *Annotation) Style() surface.AnnotationStyle { return a.style }

// Visible reports whether the annotation is drawn on export.
func (a *Annotation) Visible() bool { return a.visible }

func (a *Annotation) SetColor(color string)      { a.style.Color = color }
func (a *Annotation) SetArrowColor(color string) { a.style.Arrow.Color = color }
func (a *Annotation) SetVisible(visible bool)    { a.visible = visible }
func (a *Annotation) SetRotation(degrees float64) {
	a.style.Rotation = degrees
}

// SupportsReposition implements surface.Repositioner.
func (a *Annotation) SupportsReposition() bool { return true }

// Reposition moves the text horizontally to x in data coordinates. The
// extent is refreshed by the next draw pass.
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

// measure computes the pixel extent of the rotated, aligned text box.
func (a *Annotation) measure(tr geom.Affine) error {
	w, h, err := measureText(a.text, a.style.FontSize)
	if err != nil {
		return err
	}
	w, h = geom.RotatedSize(w, h, a.style.Rotation)
	a.extent = alignBox(tr.Apply(a.xytext), w, h, a.style.HAlign, a.style.VAlign)
	a.drawn = true
	return nil
}

// arrowStart returns the pixel point the arrow leaves the text box from.
func (a *Annotation) arrowStart() geom.Point {
	return a.extent.At(a.style.Arrow.RelPos.X, a.style.Arrow.RelPos.Y)
}

// alignBox places a w×h box relative to pos according to the alignment.
func alignBox(pos geom.Point, w, h float64, ha surface.HAlign, va surface.VAlign) geom.Rect {
	x := pos.X - w/2
	switch ha {
	case surface.AlignLeft:
		x = pos.X
	case surface.AlignRight:
		x = pos.X - w
	}
	y := pos.Y - h/2
	switch va {
	case surface.AlignBottom:
		y = pos.Y
	case surface.AlignTop:
		y = pos.Y - h
	}
	return geom.RectFromSize(x, y, w, h)
}

// Connector is a straight line on canvas Axes. It implements
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

// Visible reports whether the connector is drawn on export.
func (c *Connector) Visible() bool { return c.visible }
