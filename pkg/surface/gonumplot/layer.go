package gonumplot

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// arrowHeadLength is the length of a filled arrow head per unit of arrow
// line width, in points.
const arrowHeadLength = 6

// labelLayer draws connectors and annotations above the data. It
// implements plot.Plotter but not plot.DataRanger, so it never affects the
// axis ranges.
type labelLayer struct {
	annotations []*Annotation
	connectors  []*Connector
}

var _ plot.Plotter = (*labelLayer)(nil)

// Plot implements plot.Plotter. Label extents are absolute figure points;
// anchors and connectors are data coordinates mapped through the plot.
func (l *labelLayer) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, cn := range l.connectors {
		if !cn.visible {
			continue
		}
		c.StrokeLine2(lineStyle(cn.style),
			trX(cn.from.X), trY(cn.from.Y), trX(cn.to.X), trY(cn.to.Y))
	}

	for _, a := range l.annotations {
		if !a.visible || !a.drawn {
			continue
		}
		st := a.style
		if st.Arrow.Style != surface.ArrowNone {
			from := a.extent.At(st.Arrow.RelPos.X, st.Arrow.RelPos.Y)
			to := vg.Point{X: trX(a.xy.X), Y: trY(a.xy.Y)}
			ls := lineStyle(surface.LineStyle{Color: st.Arrow.Color, Width: st.Arrow.Width})
			c.StrokeLine2(ls, vg.Length(from.X), vg.Length(from.Y), to.X, to.Y)
			if st.Arrow.Style == surface.ArrowHead {
				if head := arrowHead(from, geom.Pt(float64(to.X), float64(to.Y)), st.Arrow.Width); head != nil {
					c.FillPolygon(ls.Color, head)
				}
			}
		}

		sty := a.textStyle()
		sty.Rotation = st.Rotation * math.Pi / 180
		ctr := a.extent.Center()
		c.FillText(sty, vg.Point{X: vg.Length(ctr.X), Y: vg.Length(ctr.Y)}, a.text)
	}
}

// arrowHead returns a triangle with its tip at to, pointing away from.
func arrowHead(from, to geom.Point, width float64) []vg.Point {
	d := to.Sub(from)
	n := math.Hypot(d.X, d.Y)
	if n == 0 {
		return nil
	}
	size := arrowHeadLength * math.Max(width, 1)
	ux, uy := d.X/n, d.Y/n
	base := geom.Pt(to.X-ux*size, to.Y-uy*size)
	half := size / 3
	pts := []geom.Point{
		to,
		geom.Pt(base.X-uy*half, base.Y+ux*half),
		geom.Pt(base.X+uy*half, base.Y-ux*half),
	}
	out := make([]vg.Point, len(pts))
	for i, p := range pts {
		out[i] = vg.Point{X: vg.Length(p.X), Y: vg.Length(p.Y)}
	}
	return out
}
