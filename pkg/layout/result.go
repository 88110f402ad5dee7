package layout

import (
	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/lineid"
	"github.com/phn/lineid-plot/pkg/surface"
)

// Feature is the final placement of one labelled feature. Coordinates are
// data units.
type Feature struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Position float64 `json:"position"`
	Flux     float64 `json:"flux"`
	Size     float64 `json:"size"`
	Extend   bool    `json:"extend"`
	AnchorY  float64 `json:"anchor_y"`
	BoxX     float64 `json:"box_x"`
	BoxY     float64 `json:"box_y"`
	Width    float64 `json:"width"`
}

// Result is the outcome of Run.
type Result struct {
	Figure surface.Figure
	Axes   surface.Axes

	// Features are sorted by position.
	Features []Feature

	Iterations int
	Changed    bool
	Converged  bool

	annotations []surface.Annotation
	boxes       map[string]surface.Annotation
	connectors  map[string]surface.Connector
}

// IDs returns the label identifiers in feature order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Features))
	for i, f := range r.Features {
		ids[i] = f.ID
	}
	return ids
}

// Positions returns the final box centres in feature order.
func (r *Result) Positions() []float64 {
	out := make([]float64, len(r.Features))
	for i, f := range r.Features {
		out[i] = f.BoxX
	}
	return out
}

// Box returns the annotation with the given identifier.
func (r *Result) Box(id string) (surface.Annotation, bool) {
	a, ok := r.boxes[id]
	return a, ok
}

// Connector returns the connector with the given identifier. Identifiers
// of connectors are label identifiers with a "_line" suffix.
func (r *Result) Connector(id string) (surface.Connector, bool) {
	c, ok := r.connectors[id]
	return c, ok
}

// Boxes returns the annotations for the given label identifiers, in the
// same order.
func (r *Result) Boxes(ids []string) ([]surface.Annotation, error) {
	out := make([]surface.Annotation, len(ids))
	for i, id := range ids {
		a, ok := r.boxes[id]
		if !ok {
			return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "no label with id %q", id)
		}
		out[i] = a
	}
	return out, nil
}

// Connectors returns the connectors of the given label identifiers, in the
// same order. Either label or connector identifiers may be given.
func (r *Result) Connectors(ids []string) ([]surface.Connector, error) {
	out := make([]surface.Connector, len(ids))
	for i, id := range ids {
		c, ok := r.connectors[id]
		if !ok {
			c, ok = r.connectors[lineid.ConnectorID(id)]
		}
		if !ok {
			return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "no connector for id %q", id)
		}
		out[i] = c
	}
	return out, nil
}

// ColorBoxes sets the text colour of the given labels, pairing ids with
// colors element-wise, and redraws the figure. With colorArrow the arrow
// takes the same colour.
func (r *Result) ColorBoxes(ids, colors []string, colorArrow bool) error {
	if err := lerrors.ValidateCount("labels", len(ids), "colors", len(colors)); err != nil {
		return err
	}
	boxes, err := r.Boxes(ids)
	if err != nil {
		return err
	}
	for i, b := range boxes {
		b.SetColor(colors[i])
		if colorArrow {
			b.SetArrowColor(colors[i])
		}
	}
	return r.redraw()
}

// ColorConnectors sets the colour of the given connectors, pairing ids
// with colors element-wise, and redraws the figure.
func (r *Result) ColorConnectors(ids, colors []string) error {
	if err := lerrors.ValidateCount("labels", len(ids), "colors", len(colors)); err != nil {
		return err
	}
	conns, err := r.Connectors(ids)
	if err != nil {
		return err
	}
	for i, c := range conns {
		c.SetColor(colors[i])
	}
	return r.redraw()
}

func (r *Result) redraw() error {
	if err := r.Figure.Draw(); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeRender, err, "redraw")
	}
	return nil
}
