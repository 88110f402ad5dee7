package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/phn/lineid-plot/pkg/fonts"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont bool
	ticks     bool
}

// WithEmbeddedFont embeds the label font in the document so that viewers
// draw text with the same metrics it was measured with.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithoutTicks omits axis ticks and tick labels.
func WithoutTicks() SVGOption { return func(r *svgRenderer) { r.ticks = false } }

// RenderSVG draws the figure and returns it as an SVG document. Labels
// carry their identifier in a data-id attribute.
func RenderSVG(f *Figure, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{ticks: true}
	for _, opt := range opts {
		opt(&r)
	}
	if err := f.Draw(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	doc := svg.New(&buf)
	doc.Startview(f.width, f.height, 0, 0, f.width, f.height)

	r.renderDefs(doc, f)
	doc.Rect(0, 0, f.width, f.height, attr("fill", surface.CSSColor(f.background)))

	for i, ax := range f.axes {
		if err := r.renderAxes(doc, ax, i); err != nil {
			return nil, err
		}
	}

	doc.End()
	return buf.Bytes(), nil
}

func (r svgRenderer) renderDefs(doc *svg.SVG, f *Figure) {
	doc.Def()
	if r.embedFont {
		doc.Style("text/css", fmt.Sprintf("@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.TTFBase64()))
	}
	if usesArrowHead(f) {
		doc.Marker("arrowhead", 10, 5, 6, 6, `viewBox="0 0 10 10"`, `orient="auto-start-reverse"`)
		doc.Path("M 0 0 L 10 5 L 0 10 z", `fill="context-stroke"`)
		doc.MarkerEnd()
	}
	for i, ax := range f.axes {
		pr := ax.PixelRect()
		doc.ClipPath(attr("id", clipID(i)))
		doc.Rect(pr.Min.X, f.height-pr.Max.Y, pr.Width(), pr.Height())
		doc.ClipEnd()
	}
	doc.DefEnd()
}

func usesArrowHead(f *Figure) bool {
	for _, ax := range f.axes {
		for _, a := range ax.annotations {
			if a.style.Arrow.Style == surface.ArrowHead {
				return true
			}
		}
	}
	return false
}

func (r svgRenderer) renderAxes(doc *svg.SVG, ax *Axes, idx int) error {
	tr, err := ax.dataTransform()
	if err != nil {
		return err
	}
	h := ax.fig.height
	pr := ax.PixelRect()

	doc.Group(`class="axes"`, attr("id", fmt.Sprintf("axes-%d", idx)))
	for _, l := range ax.lines {
		renderPolyline(doc, l, tr, h, idx)
	}
	doc.Rect(pr.Min.X, h-pr.Max.Y, pr.Width(), pr.Height(),
		`class="frame"`, `fill="none"`, `stroke="black"`, `stroke-width="1"`)
	if r.ticks {
		renderTicks(doc, ax, tr)
	}
	for _, c := range ax.connectors {
		if c.visible {
			renderConnector(doc, c, tr, h)
		}
	}
	for _, a := range ax.annotations {
		if a.visible {
			renderAnnotation(doc, a, tr, h)
		}
	}
	doc.Gend()
	return nil
}

func renderPolyline(doc *svg.SVG, l polyline, tr geom.Affine, h float64, idx int) {
	if len(l.x) == 0 {
		return
	}
	xs := make([]float64, len(l.x))
	ys := make([]float64, len(l.x))
	for i := range l.x {
		p := tr.Apply(geom.Pt(l.x[i], l.y[i]))
		xs[i], ys[i] = p.X, h-p.Y
	}
	attrs := []string{`class="spectrum"`, attr("clip-path", "url(#"+clipID(idx)+")"), `fill="none"`}
	doc.Polyline(xs, ys, append(attrs, strokeAttrs(l.style)...)...)
}

func renderTicks(doc *svg.SVG, ax *Axes, tr geom.Affine) {
	h := ax.fig.height
	pr := ax.PixelRect()
	view := ax.ViewLimits()
	font := []string{attr("font-family", fonts.FallbackFontFamily), attr("font-size", fmt.Sprint(tickFontSize))}

	for _, t := range majorTicks(view.Min.X, view.Max.X) {
		x := tr.Apply(geom.Pt(t.Value, view.Min.Y)).X
		y := h - pr.Min.Y
		doc.Line(x, y, x, y-tickLength, `class="tick"`, `stroke="black"`, `stroke-width="1"`)
		doc.Text(x, y+tickLabelGap, t.Label,
			append([]string{`class="tick-label"`, `text-anchor="middle"`, `dominant-baseline="hanging"`}, font...)...)
	}
	for _, t := range majorTicks(view.Min.Y, view.Max.Y) {
		y := h - tr.Apply(geom.Pt(view.Min.X, t.Value)).Y
		x := pr.Min.X
		doc.Line(x, y, x+tickLength, y, `class="tick"`, `stroke="black"`, `stroke-width="1"`)
		doc.Text(x-tickLabelGap, y, t.Label,
			append([]string{`class="tick-label"`, `text-anchor="end"`, `dominant-baseline="central"`}, font...)...)
	}
}

func renderConnector(doc *svg.SVG, c *Connector, tr geom.Affine, h float64) {
	a, b := tr.Apply(c.from), tr.Apply(c.to)
	attrs := append([]string{`class="connector"`}, idAttrs("connector", c.id)...)
	doc.Line(a.X, h-a.Y, b.X, h-b.Y, append(attrs, strokeAttrs(c.style)...)...)
}

func renderAnnotation(doc *svg.SVG, a *Annotation, tr geom.Affine, h float64) {
	doc.Group(append([]string{`class="label"`}, idAttrs("label", a.id)...)...)

	st := a.style
	if st.Arrow.Style != surface.ArrowNone {
		from, to := a.arrowStart(), tr.Apply(a.xy)
		attrs := append([]string{`class="arrow"`}, strokeAttrs(surface.LineStyle{Color: st.Arrow.Color, Width: st.Arrow.Width})...)
		if st.Arrow.Style == surface.ArrowHead {
			attrs = append(attrs, `marker-end="url(#arrowhead)"`)
		}
		doc.Line(from.X, h-from.Y, to.X, h-to.Y, attrs...)
	}

	c := a.extent.Center()
	x, y := c.X, h-c.Y
	attrs := []string{
		`text-anchor="middle"`,
		`dominant-baseline="central"`,
		attr("font-family", fonts.FallbackFontFamily),
		attr("font-size", fmt.Sprintf("%.1f", st.FontSize)),
		attr("fill", surface.CSSColor(st.Color)),
	}
	if st.Rotation != 0 {
		attrs = append(attrs, attr("transform", fmt.Sprintf("rotate(%.2f %.2f %.2f)", -st.Rotation, x, y)))
	}
	doc.Text(x, y, a.text, attrs...)
	doc.Gend()
}

func strokeAttrs(s surface.LineStyle) []string {
	attrs := []string{attr("stroke", surface.CSSColor(s.Color)), attr("stroke-width", fmt.Sprintf("%.2f", s.Width))}
	if len(s.Dashes) > 0 {
		parts := make([]string, len(s.Dashes))
		for i, d := range s.Dashes {
			parts[i] = fmt.Sprintf("%.2f", d*s.Width)
		}
		attrs = append(attrs, attr("stroke-dasharray", strings.Join(parts, ",")))
	}
	return attrs
}

// idAttrs returns an SVG id derived from the identifier plus the raw
// identifier in data-id. Identifiers may contain spaces, which are not
// valid in XML ids.
func idAttrs(prefix, id string) []string {
	if id == "" {
		return nil
	}
	return []string{attr("id", prefix+"-"+sanitizeID(id)), attr("data-id", id)}
}

func clipID(idx int) string { return fmt.Sprintf("axes-%d-clip", idx) }

// attr formats a name="value" pair. svgo passes arguments containing '='
// through as raw attributes.
func attr(name, value string) string {
	return name + `="` + escapeXML(value) + `"`
}

func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		}
		return '-'
	}, id)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
