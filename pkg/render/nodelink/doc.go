// Package nodelink renders task graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// tasks appear as boxes connected by dependency arrows. When an
// [analysis.Report] is supplied the diagram also carries the analysis:
//
//   - Critical path tasks and edges are drawn in red with a heavy stroke
//   - Resource conflicts are dashed orange lines labelled with the shared
//     resources; they do not influence the layout
//   - Redundant dependencies are dotted grey
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, report, nodelink.Options{ShowWaves: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include the task ID, wave, resources and metadata
//   - ShowWaves: tasks of the same wave share a rank
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes, so waves read from top to bottom.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
//
// [analysis.Report]: github.com/matzehuels/taskwave/pkg/analysis.Report
package nodelink
