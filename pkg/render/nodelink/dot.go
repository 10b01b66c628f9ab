package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/dag"
	"github.com/matzehuels/taskwave/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds duration, resources, wave and metadata to node labels.
	// When false, labels show the task name and duration.
	Detailed bool

	// ShowWaves places the tasks of each wave on the same rank and labels
	// the ranks.
	ShowWaves bool
}

// Colors used to highlight analysis results.
const (
	criticalColor  = "#d62728"
	conflictColor  = "#ff7f0e"
	redundantColor = "#9e9e9e"
)

// ToDOT converts a task graph to Graphviz DOT format.
//
// When r is non-nil the diagram also shows the analysis: critical path
// tasks and edges are drawn in red, resource conflicts are joined by dashed
// orange lines that do not affect layout, and redundant dependencies are
// dotted grey. The resulting DOT string can be rendered using [RenderSVG],
// [RenderPDF], or [RenderPNG].
func ToDOT(g *dag.Graph, r *analysis.Report, opts Options) string {
	critical := make(map[string]bool)
	criticalEdge := make(map[dag.Dependency]bool)
	redundant := make(map[dag.Dependency]bool)
	waves := make(map[string]int)
	if r != nil {
		path := r.CriticalPath.Tasks
		for i, id := range path {
			critical[id] = true
			if i > 0 {
				criticalEdge[dag.Dependency{From: path[i-1], To: id}] = true
			}
		}
		for _, e := range r.RedundantEdges {
			redundant[e] = true
		}
		for w, group := range r.Generations {
			for _, id := range group {
				waves[id] = w
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, t := range g.Tasks() {
		wave, hasWave := waves[t.ID]
		label := fmtLabel(t, wave, hasWave, opts.Detailed)
		attrs := fmtAttrs(label, critical[t.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", t.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Dependencies() {
		var attrs []string
		switch {
		case criticalEdge[e]:
			attrs = append(attrs, fmt.Sprintf("color=%q", criticalColor), "penwidth=3")
		case redundant[e]:
			attrs = append(attrs, fmt.Sprintf("color=%q", redundantColor), "style=dotted")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		}
	}

	if r != nil && len(r.Conflicts) > 0 {
		buf.WriteString("\n")
		for _, c := range r.Conflicts {
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, constraint=false, style=dashed, color=%q, label=%q];\n",
				c.TaskA, c.TaskB, conflictColor, strings.Join(c.SharedResources, ","))
		}
	}

	if r != nil && opts.ShowWaves {
		buf.WriteString("\n")
		for _, group := range r.Generations {
			quoted := make([]string, len(group))
			for i, id := range group {
				quoted[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t dag.Task, wave int, hasWave, detailed bool) string {
	head := fmt.Sprintf("%s\n%s", t.Name, strconv.FormatFloat(t.Duration, 'g', -1, 64))
	if !detailed {
		return head
	}

	parts := []string{head}
	if t.Name != t.ID {
		parts = append(parts, "id: "+t.ID)
	}
	if hasWave {
		parts = append(parts, fmt.Sprintf("wave: %d", wave))
	}
	if len(t.Resources) > 0 {
		parts = append(parts, "resources: "+strings.Join(t.Resources, ", "))
	}
	for _, k := range slices.Sorted(maps.Keys(t.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, t.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(label string, critical bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if critical {
		attrs = append(attrs, fmt.Sprintf("color=%q", criticalColor), "penwidth=3", "fontcolor="+strconv.Quote(criticalColor))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
