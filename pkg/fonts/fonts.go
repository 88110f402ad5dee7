// Package fonts provides the label font used for measuring and drawing
// annotation text.
//
// The Go Regular typeface ships inside golang.org/x/image, so every
// rendering surface measures glyphs against the same outlines without
// depending on system fonts. Faces are created at 72 DPI, which makes one
// point equal to one pixel.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DPI is the resolution faces are created at.
const DPI = 72

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for SVG viewers that ignore the
// embedded font face.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica', 'Arial', sans-serif`

var (
	parsed     *opentype.Font
	parseErr   error
	parsedOnce sync.Once
)

func regular() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// TTF returns the raw font data.
func TTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// TTFBase64 returns the font data as a base64 string for embedding in SVG.
// The result is cached after first computation.
func TTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// NewFace returns a new face at the given size in points. The caller owns
// the face and must not share it between goroutines.
func NewFace(size float64) (font.Face, error) {
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %vpt: %w", size, err)
	}
	return face, nil
}

// Metrics describes the unrotated extent of a run of text in pixels.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height returns the line height of the measured text.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

var (
	measureMu sync.Mutex
	faces     = map[float64]font.Face{}
)

// Measure returns the extent of text set at size points.
// It is safe for concurrent use.
func Measure(text string, size float64) (Metrics, error) {
	measureMu.Lock()
	defer measureMu.Unlock()

	face, ok := faces[size]
	if !ok {
		var err error
		face, err = NewFace(size)
		if err != nil {
			return Metrics{}, err
		}
		faces[size] = face
	}

	m := face.Metrics()
	return Metrics{
		Width:   fixedToFloat(font.MeasureString(face, text)),
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
	}, nil
}
