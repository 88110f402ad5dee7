package lineid

import "github.com/phn/lineid-plot/pkg/geom"

// BoxLocation returns the data coordinates of the point that lies offset
// figure-fraction units directly above anchor.
//
// data maps data coordinates to pixels and figure maps figure fractions to
// pixels. The offset is applied in figure-fraction space so that the gap
// between arrow tip and label looks the same on axes with different y
// scales. Errors from the transforms are returned unchanged.
func BoxLocation(data, figure geom.Transform, anchor geom.Point, offset float64) (geom.Point, error) {
	pixToData, err := data.Invert()
	if err != nil {
		return geom.Point{}, err
	}
	pixToFig, err := figure.Invert()
	if err != nil {
		return geom.Point{}, err
	}
	return boxLocation(data, figure, pixToData, pixToFig, anchor, offset), nil
}

// BoxLocations applies BoxLocation to each anchor. The transforms are
// inverted once for the whole batch.
func BoxLocations(data, figure geom.Transform, anchors []geom.Point, offset float64) ([]geom.Point, error) {
	pixToData, err := data.Invert()
	if err != nil {
		return nil, err
	}
	pixToFig, err := figure.Invert()
	if err != nil {
		return nil, err
	}
	out := make([]geom.Point, len(anchors))
	for i, a := range anchors {
		out[i] = boxLocation(data, figure, pixToData, pixToFig, a, offset)
	}
	return out, nil
}

func boxLocation(data, figure, pixToData, pixToFig geom.Transform, anchor geom.Point, offset float64) geom.Point {
	frac := pixToFig.Apply(data.Apply(anchor))
	frac.Y += offset
	return pixToData.Apply(figure.Apply(frac))
}
