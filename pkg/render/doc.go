// Package render draws a laid-out dot plot.
//
// # Overview
//
// A [Frame] bundles what one update produced: the sorted collection, its
// geometry and the settings. [RenderSVG] turns a frame into a standalone,
// interactive SVG document: bands, grid lines, axes, one mark per point,
// the color and size legends, and an embedded script that implements click
// selection, hover, legend filtering and document-click reset in the
// browser.
//
//	g, err := layout.Compute(c, s, vp, nil)
//	svg := render.RenderSVG(render.Frame{Collection: c, Geometry: g, Settings: s})
//
// When the geometry carries an error panel (a log scale was refused) the
// document shows only the message. An empty collection renders an empty
// document.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). [RenderPDF] and [RenderPNG] are wrappers for frames.
//
// # Other Outputs
//
// [RenderJSON] writes the geometry and the resolved mark positions. The
// [hierarchy] subpackage draws the parent/category tree with Graphviz.
//
// [hierarchy]: github.com/matzehuels/dotplot/pkg/render/hierarchy
package render
