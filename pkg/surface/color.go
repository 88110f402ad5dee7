package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// shortColors are the single-letter colour codes common in plotting tools.
var shortColors = map[string]string{
	"k": "black",
	"w": "white",
	"r": "red",
	"g": "green",
	"b": "blue",
	"c": "cyan",
	"m": "magenta",
	"y": "yellow",
}

// ParseColor accepts SVG colour names, single-letter codes and #rgb or
// #rrggbb hex strings.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if long, ok := shortColors[s]; ok {
		s = long
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
}

func parseHex(h string) (color.RGBA, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("bad hex colour %q", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex colour %q: %w", h, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// ColorOr parses s, falling back to def for unknown colours.
func ColorOr(s string, def color.RGBA) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// CSSColor normalises s to a hex colour for SVG output. Unknown values are
// passed through for the viewer to interpret.
func CSSColor(s string) string {
	c, err := ParseColor(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
