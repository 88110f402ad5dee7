package surface

import "github.com/phn/lineid-plot/pkg/geom"

// HAlign is the horizontal alignment of text relative to its position.
type HAlign string

// VAlign is the vertical alignment of text relative to its position.
type VAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"

	AlignBottom VAlign = "bottom"
	AlignMiddle VAlign = "center"
	AlignTop    VAlign = "top"
)

// Arrow styles understood by the bundled surfaces.
const (
	ArrowNone  = ""
	ArrowPlain = "-"
	ArrowHead  = "->"
)

// LineStyle describes how a line is stroked.
type LineStyle struct {
	Color  string    `json:"color,omitempty" toml:"color"`
	Width  float64   `json:"width,omitempty" toml:"width"`
	Dashes []float64 `json:"dashes,omitempty" toml:"dashes"`
}

// ArrowStyle describes the arrow from a label to its anchor.
type ArrowStyle struct {
	Style string  `json:"style" toml:"style"`
	Color string  `json:"color,omitempty" toml:"color"`
	Width float64 `json:"width,omitempty" toml:"width"`

	// RelPos is where the arrow leaves the text box, relative to the
	// unrotated box: (0, 0) lower-left, (1, 1) upper-right.
	RelPos geom.Point `json:"relpos" toml:"relpos"`
}

// AnnotationStyle describes how a label is drawn.
type AnnotationStyle struct {
	FontSize float64    `json:"font_size,omitempty" toml:"font_size"`
	Rotation float64    `json:"rotation" toml:"rotation"`
	HAlign   HAlign     `json:"halign,omitempty" toml:"halign"`
	VAlign   VAlign     `json:"valign,omitempty" toml:"valign"`
	Color    string     `json:"color,omitempty" toml:"color"`
	Arrow    ArrowStyle `json:"arrow" toml:"arrow"`
}

// DefaultFontSize is the label size used when none is given.
const DefaultFontSize = 12

// DefaultAnnotationStyle returns vertical, centred labels whose plain arrow
// leaves the bottom centre of the text box.
func DefaultAnnotationStyle() AnnotationStyle {
	return AnnotationStyle{
		FontSize: DefaultFontSize,
		Rotation: 90,
		HAlign:   AlignCenter,
		VAlign:   AlignMiddle,
		Color:    "black",
		Arrow: ArrowStyle{
			Style:  ArrowPlain,
			Color:  "black",
			Width:  1,
			RelPos: geom.Pt(0.5, 0),
		},
	}
}

// DefaultConnectorStyle returns a thin dashed black line.
func DefaultConnectorStyle() LineStyle {
	return LineStyle{Color: "black", Width: 1, Dashes: []float64{3.7, 1.6}}
}

// DefaultSpectrumStyle returns the style used to plot the signal itself.
func DefaultSpectrumStyle() LineStyle {
	return LineStyle{Color: "#1f77b4", Width: 1}
}

// Merge fills the zero fields of s from def.
func (s AnnotationStyle) Merge(def AnnotationStyle) AnnotationStyle {
	if s.FontSize == 0 {
		s.FontSize = def.FontSize
	}
	if s.HAlign == "" {
		s.HAlign = def.HAlign
	}
	if s.VAlign == "" {
		s.VAlign = def.VAlign
	}
	if s.Color == "" {
		s.Color = def.Color
	}
	if s.Arrow.Color == "" {
		s.Arrow.Color = def.Arrow.Color
	}
	if s.Arrow.Width == 0 {
		s.Arrow.Width = def.Arrow.Width
	}
	return s
}

// Merge fills the zero fields of s from def.
func (s LineStyle) Merge(def LineStyle) LineStyle {
	if s.Color == "" {
		s.Color = def.Color
	}
	if s.Width == 0 {
		s.Width = def.Width
	}
	return s
}
