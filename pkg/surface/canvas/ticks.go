package canvas

import "gonum.org/v1/plot"

const (
	tickLength   = 4
	tickFontSize = 9
	tickLabelGap = 3
)

// majorTicks returns the labelled ticks inside [lo, hi].
func majorTicks(lo, hi float64) []plot.Tick {
	all := plot.DefaultTicks{}.Ticks(lo, hi)
	out := all[:0]
	for _, t := range all {
		if t.IsMinor() || t.Value < lo || t.Value > hi {
			continue
		}
		out = append(out, t)
	}
	return out
}
