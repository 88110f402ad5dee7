package canvas

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

func newTestAxes(t *testing.T) (*Figure, *Axes) {
	t.Helper()
	fig := New()
	ax, err := fig.NewAxes(geom.RectFromSize(0.1, 0.1, 0.85, 0.65))
	if err != nil {
		t.Fatalf("NewAxes() error: %v", err)
	}
	if err := ax.Plot([]float64{0, 5, 10}, []float64{0, 1, 0}, surface.DefaultSpectrumStyle()); err != nil {
		t.Fatalf("Plot() error: %v", err)
	}
	return fig, ax
}

func TestAutoscale(t *testing.T) {
	_, ax := newTestAxes(t)

	lo, hi := ax.XBound()
	if math.Abs(lo+0.5) > 1e-12 || math.Abs(hi-10.5) > 1e-12 {
		t.Errorf("XBound() = %v, %v; want -0.5, 10.5", lo, hi)
	}
	lo, hi = ax.YBound()
	if math.Abs(lo+0.05) > 1e-12 || math.Abs(hi-1.05) > 1e-12 {
		t.Errorf("YBound() = %v, %v; want -0.05, 1.05", lo, hi)
	}

	if _, err := ax.Line(0, 0, 0, 50, surface.DefaultConnectorStyle()); err != nil {
		t.Fatal(err)
	}
	if _, hi2 := ax.YBound(); hi2 != hi {
		t.Errorf("connector changed limits: %v -> %v", hi, hi2)
	}

	ax.SetYLim(-2, 3)
	if lo, hi := ax.YBound(); lo != -2 || hi != 3 {
		t.Errorf("YBound() after SetYLim = %v, %v", lo, hi)
	}
}

func TestAutoscaleSinglePoint(t *testing.T) {
	fig := New()
	ax, _ := fig.NewAxes(geom.RectFromSize(0, 0, 1, 1))
	_ = ax.Plot([]float64{5}, []float64{0}, surface.LineStyle{})

	if _, err := ax.DataTransform(); err != nil {
		t.Errorf("DataTransform() on a single point: %v", err)
	}
}

func TestTransformUnavailable(t *testing.T) {
	fig := New(WithSize(0, 0))
	if _, err := fig.FigureTransform(); !errors.Is(err, surface.ErrTransformUnavailable) {
		t.Errorf("FigureTransform() error = %v, want ErrTransformUnavailable", err)
	}
	ax, _ := fig.NewAxes(geom.RectFromSize(0, 0, 1, 1))
	if _, err := ax.DataTransform(); !lerrors.Is(err, lerrors.ErrCodeTransform) {
		t.Errorf("DataTransform() error = %v, want TRANSFORM_UNAVAILABLE", err)
	}
	if err := fig.Draw(); err == nil {
		t.Error("Draw() on an unsized figure should fail")
	}
}

func TestNewAxesRejectsEmptyRect(t *testing.T) {
	if _, err := New().AddAxes(geom.RectFromSize(0.1, 0.1, 0, 0.5)); !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("AddAxes() error = %v, want INVALID_INPUT", err)
	}
}

func TestAnnotationExtent(t *testing.T) {
	fig, ax := newTestAxes(t)

	ann, err := ax.NewAnnotation("Si II", geom.Pt(5, 1), geom.Pt(5, 1.2), surface.DefaultAnnotationStyle())
	if err != nil {
		t.Fatalf("NewAnnotation() error: %v", err)
	}
	if _, err := ann.WindowExtent(); !errors.Is(err, surface.ErrNotDrawn) {
		t.Fatalf("WindowExtent() before Draw error = %v, want ErrNotDrawn", err)
	}

	if err := fig.Draw(); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	ext, err := ann.WindowExtent()
	if err != nil {
		t.Fatalf("WindowExtent() error: %v", err)
	}
	if ext.Width() >= ext.Height() {
		t.Errorf("vertical label extent %v should be taller than wide", ext)
	}

	tr, _ := ax.DataTransform()
	want := tr.Apply(geom.Pt(5, 1.2))
	if c := ext.Center(); math.Abs(c.X-want.X) > 1e-9 || math.Abs(c.Y-want.Y) > 1e-9 {
		t.Errorf("extent centre = %v, want %v", c, want)
	}
	if fig.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1", fig.Draws())
	}
}

func TestAnnotationAlignment(t *testing.T) {
	pos := geom.Pt(100, 50)
	tests := []struct {
		ha   surface.HAlign
		va   surface.VAlign
		want geom.Rect
	}{
		{surface.AlignCenter, surface.AlignMiddle, geom.RectFromSize(95, 40, 10, 20)},
		{surface.AlignLeft, surface.AlignBottom, geom.RectFromSize(100, 50, 10, 20)},
		{surface.AlignRight, surface.AlignTop, geom.RectFromSize(90, 30, 10, 20)},
	}
	for _, tt := range tests {
		if got := alignBox(pos, 10, 20, tt.ha, tt.va); got != tt.want {
			t.Errorf("alignBox(%s, %s) = %v, want %v", tt.ha, tt.va, got, tt.want)
		}
	}
}

func TestReposition(t *testing.T) {
	fig, ax := newTestAxes(t)
	ann, _ := ax.NewAnnotation("N V", geom.Pt(5, 1), geom.Pt(5, 1.2), surface.DefaultAnnotationStyle())
	_ = fig.Draw()
	before, _ := ann.WindowExtent()

	var r surface.Repositioner = ann
	if !r.SupportsReposition() {
		t.Fatal("canvas annotations should support reposition")
	}
	if err := r.Reposition(6); err != nil {
		t.Fatalf("Reposition() error: %v", err)
	}
	if got := ann.TextPosition(); got != geom.Pt(6, 1.2) {
		t.Errorf("TextPosition() = %v, want (6, 1.2)", got)
	}
	if ann.Anchor() != geom.Pt(5, 1) {
		t.Error("Reposition() moved the anchor")
	}

	_ = fig.Draw()
	after, _ := ann.WindowExtent()
	if after.Center().X <= before.Center().X {
		t.Errorf("extent did not move right: %v -> %v", before, after)
	}
}

func TestRenderSVG(t *testing.T) {
	fig, ax := newTestAxes(t)
	ann, _ := ax.Annotate("Fe <II> & co", geom.Pt(5, 1), geom.Pt(5, 1.2), surface.DefaultAnnotationStyle())
	ann.SetID("Fe II_num_2")
	conn, _ := ax.Line(5, 1, 5, 0.5, surface.DefaultConnectorStyle())
	conn.SetID("Fe II_num_2_line")

	svg, err := RenderSVG(fig)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	s := string(svg)

	for _, want := range []string{
		`xmlns="http://www.w3.org/2000/svg"`,
		`viewBox="0.00 0.00 `,
		`data-id="Fe II_num_2"`,
		`id="label-Fe-II_num_2"`,
		`data-id="Fe II_num_2_line"`,
		`Fe &lt;II&gt; &amp; co`,
		`rotate(-90.00`,
		`stroke-dasharray=`,
		`class="spectrum"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(s, "@font-face") {
		t.Error("font embedded without WithEmbeddedFont")
	}
}

func TestRenderSVGHidden(t *testing.T) {
	fig, ax := newTestAxes(t)
	ann, _ := ax.Annotate("hidden", geom.Pt(5, 1), geom.Pt(5, 1.2), surface.DefaultAnnotationStyle())
	ann.SetVisible(false)

	svg, err := RenderSVG(fig, WithoutTicks(), WithEmbeddedFont())
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if bytes.Contains(svg, []byte(">hidden<")) {
		t.Error("hidden annotation was rendered")
	}
	if bytes.Contains(svg, []byte(`class="tick"`)) {
		t.Error("ticks rendered with WithoutTicks")
	}
	if !bytes.Contains(svg, []byte("@font-face")) {
		t.Error("font not embedded")
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	fig, ax := newTestAxes(t)
	_ = ax.Plot([]float64{0, 5, 10}, []float64{0, 1, 0}, surface.LineStyle{Color: "black", Width: 1})
	style := surface.DefaultAnnotationStyle()
	style.Arrow.Style = surface.ArrowHead
	ann, _ := ax.Annotate(`Fe "II"`, geom.Pt(5, 1), geom.Pt(5, 1.2), style)
	ann.SetID(`a"b`)

	data, err := RenderSVG(fig, WithEmbeddedFont())
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	elements := map[string]int{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("SVG is not well-formed: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			elements[se.Name.Local]++
			if se.Name.Local == "g" {
				for _, a := range se.Attr {
					if a.Name.Local == "data-id" && a.Value != `a"b` {
						t.Errorf("data-id = %q, want %q", a.Value, `a"b`)
					}
				}
			}
		}
	}
	for _, name := range []string{"svg", "defs", "style", "marker", "clipPath", "polyline", "text"} {
		if elements[name] == 0 {
			t.Errorf("no <%s> element in output", name)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	fig, ax := newTestAxes(t)
	_, _ = ax.Annotate("C IV", geom.Pt(5, 1), geom.Pt(5, 1.2), surface.DefaultAnnotationStyle())

	png, err := RenderPNG(fig, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}

	if _, err := RenderPNG(fig, WithScale(0)); !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("RenderPNG(scale 0) error = %v, want INVALID_INPUT", err)
	}
}

func TestEncode(t *testing.T) {
	fig, _ := newTestAxes(t)

	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, fig, FormatSVG); err != nil {
		t.Fatalf("Encode(svg) error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("<svg")) {
		t.Error("Encode(svg) did not write SVG")
	}

	if err := Encode(context.Background(), &buf, fig, "gif"); !lerrors.Is(err, lerrors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestFactory(t *testing.T) {
	fig, err := Factory{}.NewFigure()
	if err != nil {
		t.Fatalf("NewFigure() error: %v", err)
	}
	if w, h := fig.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size() = %vx%v, want default", w, h)
	}
	if _, err := (Factory{Width: -1, Height: 10}).NewFigure(); err == nil {
		t.Error("NewFigure() with negative width should fail")
	}
}
