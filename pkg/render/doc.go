// Package render converts SVG documents produced by the rendering surfaces
// into formats that need an external rasterizer.
//
// PDF output shells out to rsvg-convert from librsvg:
//
//	svg, _ := canvas.RenderSVG(fig)
//	pdf, err := render.ToPDF(ctx, svg)
//
// Use [Available] to check for the tool before offering PDF output.
package render
