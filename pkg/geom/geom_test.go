package geom

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func TestRect(t *testing.T) {
	r := RectFromSize(10, 20, 40, 60)

	if r.Width() != 40 || r.Height() != 60 {
		t.Errorf("size = %vx%v, want 40x60", r.Width(), r.Height())
	}
	if c := r.Center(); c != Pt(30, 50) {
		t.Errorf("Center() = %v, want (30, 50)", c)
	}
	if p := r.At(0.5, 0); p != Pt(30, 20) {
		t.Errorf("At(0.5, 0) = %v, want (30, 20)", p)
	}
	if got := RectAround(Pt(0, 0), 2, 4); got != (Rect{Min: Pt(-1, -2), Max: Pt(1, 2)}) {
		t.Errorf("RectAround() = %v", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := RectFromSize(0, 0, 10, 10)
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", RectFromSize(2, 2, 2, 2), true},
		{"partial", RectFromSize(5, 5, 10, 10), true},
		{"touching edge", RectFromSize(10, 0, 5, 5), false},
		{"disjoint", RectFromSize(20, 20, 1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotatedSize(t *testing.T) {
	w, h := RotatedSize(30, 10, 90)
	if !near(w, 10) || !near(h, 30) {
		t.Errorf("RotatedSize(30, 10, 90) = %v, %v; want 10, 30", w, h)
	}
	w, h = RotatedSize(30, 10, 0)
	if !near(w, 30) || !near(h, 10) {
		t.Errorf("RotatedSize(30, 10, 0) = %v, %v; want 30, 10", w, h)
	}
}

func TestBoxMapping(t *testing.T) {
	data := Rect{Min: Pt(1240, -3), Max: Pt(1270, 5)}
	px := RectFromSize(64, 48, 544, 312)
	tr := BoxMapping(data, px)

	if p := tr.Apply(data.Min); !near(p.X, px.Min.X) || !near(p.Y, px.Min.Y) {
		t.Errorf("Apply(min) = %v, want %v", p, px.Min)
	}
	if p := tr.Apply(data.Max); !near(p.X, px.Max.X) || !near(p.Y, px.Max.Y) {
		t.Errorf("Apply(max) = %v, want %v", p, px.Max)
	}
}

func TestAffineRoundTrip(t *testing.T) {
	tr := Scale(2, 3).Then(Translation(10, -5))
	p := Pt(4, 7)

	q := tr.Apply(p)
	if q != Pt(18, 16) {
		t.Fatalf("Apply() = %v, want (18, 16)", q)
	}

	inv, err := tr.Invert()
	if err != nil {
		t.Fatalf("Invert() error: %v", err)
	}
	back := inv.Apply(q)
	if !near(back.X, p.X) || !near(back.Y, p.Y) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestAffineSingular(t *testing.T) {
	tests := []struct {
		name string
		tr   Affine
	}{
		{"collapsed axis", Scale(0, 1)},
		{"parallel rows", Affine{A: 1, B: 2, C: 2, D: 4}},
		{"nan", Scale(math.NaN(), 1)},
		{"inf", Scale(math.Inf(1), 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.tr.Invert(); !errors.Is(err, ErrSingular) {
				t.Errorf("Invert() error = %v, want ErrSingular", err)
			}
		})
	}
}

func TestAffineInvertTinyScale(t *testing.T) {
	// 300 px over a 3e14 wide data range and 300 px over 3e10.
	tr := BoxMapping(RectFromSize(1e14, 0, 3e14, 3e10), RectFromSize(64, 48, 544, 312))
	inv, err := tr.Invert()
	if err != nil {
		t.Fatalf("Invert() error: %v", err)
	}
	p := Pt(2.5e14, 1.2e10)
	back := inv.Apply(tr.Apply(p))
	if math.Abs(back.X-p.X) > 1e-6*p.X || math.Abs(back.Y-p.Y) > 1e-6*p.Y {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestApplyRect(t *testing.T) {
	r := Scale(-1, 1).ApplyRect(RectFromSize(1, 1, 2, 2))
	if r.Min != Pt(-3, 1) || r.Max != Pt(-1, 3) {
		t.Errorf("ApplyRect() = %v", r)
	}
}
