// Package render provides format conversion for rendered task graphs.
//
// Diagrams are produced by the [nodelink] subpackage as Graphviz DOT and
// SVG. [ToPDF] and [ToPNG] convert any SVG to other formats using the
// external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(g, report, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/taskwave/pkg/render/nodelink
package render
