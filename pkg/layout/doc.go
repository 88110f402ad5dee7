// Package layout places feature labels on a plotted spectrum.
//
// [Run] is the entry point. It validates and sorts the features, draws one
// annotation per feature on a [surface.Axes], measures how wide each label
// rendered, spreads the labels with [lineid.AdjustBoxes] and moves them
// into place:
//
//	res, err := layout.Run(ctx, wave, flux,
//	    []float64{1242.80, 1260.42, 1264.74},
//	    []string{"N V", "Si II", "Si II"},
//	    layout.WithLabelSize(10),
//	)
//	if err != nil {
//	    return err
//	}
//	svg, err := canvas.RenderSVG(res.Figure.(*canvas.Figure))
//
// Without [WithAxes], [WithFigure] or [WithFactory] a new canvas figure is
// created and the spectrum is plotted on it.
//
// # Identifiers
//
// Every label gets an identifier derived from its text (see
// [lineid.UniqueLabels]); its connector is the identifier plus "_line".
// [Result.Box] and [Result.Connector] look handles up by identifier, and
// [Result.ColorBoxes] and [Result.ColorConnectors] restyle them.
//
// # Surfaces without in-place repositioning
//
// Annotations that do not implement [surface.Repositioner], or report
// SupportsReposition() == false, are moved through
// [surface.TextPositioner] instead, with a warning. Annotations that offer
// neither are left where they were drawn, also with a warning.
package layout
