package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/dag"
)

func scenario(t *testing.T) (*dag.Graph, *analysis.Report) {
	t.Helper()
	tasks := []dag.Task{
		{ID: "A", Duration: 2, Resources: []string{"db"}},
		{ID: "B", Duration: 3, Resources: []string{"db"}},
		{ID: "C", Duration: 1, Resources: []string{"db"}},
	}
	deps := []dag.Dependency{{From: "A", To: "B"}, {From: "A", To: "C"}}
	g, err := dag.Build(tasks, deps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := analysis.RunGraph(g, 0)
	if err != nil {
		t.Fatalf("RunGraph: %v", err)
	}
	return g, r
}

func TestToDOT(t *testing.T) {
	g, r := scenario(t)
	dot := ToDOT(g, r, Options{})

	for _, want := range []string{
		"digraph G {",
		`"A" [label="A\n2", color="#d62728"`,
		`"B" [label="B\n3", color="#d62728"`,
		`"C" [label="C\n1"];`,
		`"A" -> "B" [color="#d62728", penwidth=3];`,
		`"A" -> "C";`,
		`"B" -> "C" [dir=none, constraint=false, style=dashed, color="#ff7f0e", label="db"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "rank=same") {
		t.Error("rank groups emitted without ShowWaves")
	}
}

func TestToDOTWaves(t *testing.T) {
	g, r := scenario(t)
	dot := ToDOT(g, r, Options{ShowWaves: true, Detailed: true})

	if !strings.Contains(dot, `{ rank=same; "B"; "C"; }`) {
		t.Errorf("missing wave rank group\n%s", dot)
	}
	if !strings.Contains(dot, `wave: 1\nresources: db`) {
		t.Errorf("detailed label missing wave and resources\n%s", dot)
	}
}

func TestToDOTWithoutReport(t *testing.T) {
	g, _ := scenario(t)
	dot := ToDOT(g, nil, Options{ShowWaves: true})

	if strings.Contains(dot, "#d62728") || strings.Contains(dot, "dashed") {
		t.Errorf("analysis styling without a report\n%s", dot)
	}
	if !strings.Contains(dot, `"A" -> "B";`) {
		t.Errorf("missing plain edge\n%s", dot)
	}
}

func TestToDOTRedundantEdge(t *testing.T) {
	tasks := []dag.Task{{ID: "a", Duration: 1}, {ID: "b", Duration: 1}, {ID: "c", Duration: 1}}
	deps := []dag.Dependency{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "a", To: "c"}}
	g, err := dag.Build(tasks, deps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := analysis.RunGraph(g, 0)
	if err != nil {
		t.Fatalf("RunGraph: %v", err)
	}

	dot := ToDOT(g, r, Options{})
	if !strings.Contains(dot, `"a" -> "c" [color="#9e9e9e", style=dotted];`) {
		t.Errorf("redundant edge not dotted\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox changed SVG without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	g, r := scenario(t)
	svg, err := RenderSVG(context.Background(), ToDOT(g, r, Options{ShowWaves: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}

func TestToDOTWaveIndices(t *testing.T) {
	tasks := []dag.Task{
		{ID: "fetch", Duration: 1},
		{ID: "compile", Duration: 2},
		{ID: "lint", Duration: 1},
		{ID: "package", Duration: 1},
	}
	deps := []dag.Dependency{
		{From: "fetch", To: "compile"},
		{From: "fetch", To: "lint"},
		{From: "compile", To: "package"},
	}
	g, err := dag.Build(tasks, deps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := analysis.RunGraph(g, 0)
	if err != nil {
		t.Fatalf("RunGraph: %v", err)
	}

	dot := ToDOT(g, r, Options{ShowWaves: true, Detailed: true})
	for _, want := range []string{
		`"fetch" [label="fetch\n1\nwave: 0"`,
		`"compile" [label="compile\n2\nwave: 1"`,
		`"lint" [label="lint\n1\nwave: 1"`,
		`"package" [label="package\n1\nwave: 2"`,
		`{ rank=same; "fetch"; }`,
		`{ rank=same; "compile"; "lint"; }`,
		`{ rank=same; "package"; }`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}
