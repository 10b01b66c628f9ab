package cpm

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/taskwave/pkg/dag"
)

type taskDef struct {
	id  string
	dur float64
}

func buildTestGraph(t *testing.T, tasks []taskDef, deps ...[2]string) *dag.Graph {
	t.Helper()
	ts := make([]dag.Task, len(tasks))
	for i, s := range tasks {
		ts[i] = dag.Task{ID: s.id, Duration: s.dur}
	}
	ds := make([]dag.Dependency, len(deps))
	for i, d := range deps {
		ds[i] = dag.Dependency{From: d[0], To: d[1]}
	}
	g, err := dag.Build(ts, ds)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func TestAnalyze_LinearChain(t *testing.T) {
	// a -> b -> c (each duration 1)
	g := buildTestGraph(t, []taskDef{{"a", 1}, {"b", 1}, {"c", 1}}, [2]string{"a", "b"}, [2]string{"b", "c"})

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Duration != 3 {
		t.Errorf("expected duration 3, got %v", result.Duration)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, result.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}

	assertSchedule(t, result.Tasks["a"], 0, 1, 0, 1, 0, true)
	assertSchedule(t, result.Tasks["b"], 1, 2, 1, 2, 0, true)
	assertSchedule(t, result.Tasks["c"], 2, 3, 2, 3, 0, true)
}

func TestAnalyze_Scenario(t *testing.T) {
	// A(2) -> B(3), A(2) -> C(1)
	g := buildTestGraph(t, []taskDef{{"A", 2}, {"B", 3}, {"C", 1}}, [2]string{"A", "B"}, [2]string{"A", "C"})

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Duration != 5 {
		t.Errorf("expected duration 5, got %v", result.Duration)
	}
	if diff := cmp.Diff([]string{"A", "B"}, result.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, result.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	assertSchedule(t, result.Tasks["A"], 0, 2, 0, 2, 0, true)
	assertSchedule(t, result.Tasks["B"], 2, 5, 2, 5, 0, true)
	assertSchedule(t, result.Tasks["C"], 2, 3, 4, 5, 2, false)
}

func TestAnalyze_DiamondWithSlack(t *testing.T) {
	// a(1) -> b(3) -> d(1)
	// a(1) -> c(1) -> d(1)
	g := buildTestGraph(t,
		[]taskDef{{"a", 1}, {"b", 3}, {"c", 1}, {"d", 1}},
		[2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "d"}, [2]string{"c", "d"},
	)

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Duration != 5 {
		t.Errorf("expected duration 5, got %v", result.Duration)
	}
	if diff := cmp.Diff([]string{"a", "b", "d"}, result.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
	assertSchedule(t, result.Tasks["c"], 1, 2, 3, 4, 2, false)
	assertSchedule(t, result.Tasks["d"], 4, 5, 4, 5, 0, true)
}

func TestAnalyze_TieBreak(t *testing.T) {
	tests := []struct {
		name  string
		tasks []taskDef
		deps  [][2]string
		want  []string
	}{
		{
			name:  "EqualBranches",
			tasks: []taskDef{{"A", 1}, {"C", 2}, {"B", 2}, {"D", 1}},
			deps:  [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  []string{"A", "B", "D"},
		},
		{
			name:  "EqualSources",
			tasks: []taskDef{{"x", 3}, {"a", 1}, {"b", 2}},
			deps:  [][2]string{{"a", "b"}},
			want:  []string{"a", "b"},
		},
		{
			name: "LowerFirstStepWinsOverShorterPath",
			// [m, n] and [m, z, y] are both critical; n < z positionally.
			tasks: []taskDef{{"m", 1}, {"n", 2}, {"z", 1}, {"y", 1}},
			deps:  [][2]string{{"m", "n"}, {"m", "z"}, {"z", "y"}},
			want:  []string{"m", "n"},
		},
		{
			name:  "ZeroDurations",
			tasks: []taskDef{{"b", 0}, {"a", 0}, {"c", 0}},
			deps:  [][2]string{{"b", "c"}},
			want:  []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildTestGraph(t, tt.tasks, tt.deps...)
			result, err := Analyze(g, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, result.CriticalPath); diff != "" {
				t.Errorf("critical path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyze_FloatTolerance(t *testing.T) {
	// 0.1 + 0.2 is not exactly 0.3, but both chains are critical.
	g := buildTestGraph(t, []taskDef{{"a", 0.1}, {"b", 0.2}, {"z", 0.3}}, [2]string{"a", "b"})

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Tasks["z"].IsCritical {
		t.Errorf("expected z critical, slack=%g", result.Tasks["z"].Slack)
	}
	if diff := cmp.Diff([]string{"a", "b"}, result.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_LargeDurations(t *testing.T) {
	// Slack on the only chain rounds to ~1e-7 at this magnitude.
	g := buildTestGraph(t,
		[]taskDef{{"A", 1e9 + 0.1}, {"B", 0.7}, {"C", 3e9 + 0.3}, {"D", 0.2}, {"E", 1}},
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"}, [2]string{"A", "E"})

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, result.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
	for _, id := range result.CriticalPath {
		if !result.Tasks[id].IsCritical {
			t.Errorf("%s not critical, slack=%g", id, result.Tasks[id].Slack)
		}
	}
	if result.Tasks["E"].IsCritical {
		t.Errorf("E should have slack, got %g", result.Tasks["E"].Slack)
	}
	if got := PathDuration(g, result.CriticalPath); math.Abs(got-result.Duration) > Tolerance(result.Duration) {
		t.Errorf("path duration %g, want %g", got, result.Duration)
	}
}

func TestAnalyze_LargeDurationsKeepRealSlack(t *testing.T) {
	// One unit of slack is real even when the project runs for 4e9 units.
	g := buildTestGraph(t,
		[]taskDef{{"a", 4e9}, {"b", 4e9 - 1}, {"z", 1}},
		[2]string{"a", "z"}, [2]string{"b", "z"})

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tasks["b"].IsCritical {
		t.Errorf("b should not be critical, slack=%g", result.Tasks["b"].Slack)
	}
	if diff := cmp.Diff([]string{"a", "z"}, result.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
}

func TestTolerance(t *testing.T) {
	tests := []struct {
		duration float64
		want     float64
	}{
		{0, Epsilon},
		{1, Epsilon},
		{100, Epsilon},
		{4e9, 4e-3},
	}
	for _, tt := range tests {
		if got := Tolerance(tt.duration); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("Tolerance(%g) = %g, want %g", tt.duration, got, tt.want)
		}
	}
}

func TestAnalyze_Empty(t *testing.T) {
	g := buildTestGraph(t, nil)

	result, err := Analyze(g, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 0 {
		t.Errorf("expected duration 0, got %v", result.Duration)
	}
	if result.CriticalPath == nil || len(result.CriticalPath) != 0 {
		t.Errorf("expected empty non-nil critical path, got %#v", result.CriticalPath)
	}
}

func TestAnalyze_Cycle(t *testing.T) {
	g := buildTestGraph(t, []taskDef{{"A", 1}, {"B", 1}, {"C", 1}},
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"})

	_, err := Analyze(g, nil)
	var cycleErr *dag.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *dag.CycleError, got %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, cycleErr.Tasks); diff != "" {
		t.Errorf("cycle tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_ExplicitOrder(t *testing.T) {
	g := buildTestGraph(t, []taskDef{{"a", 1}, {"b", 2}}, [2]string{"a", "b"})
	order, err := g.TopoSort()
	if err != nil {
		t.Fatal(err)
	}

	result, err := Analyze(g, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 3 {
		t.Errorf("expected duration 3, got %v", result.Duration)
	}
}

func TestCriticalPathProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(20)
		tasks := make([]taskDef, n)
		for i := range tasks {
			tasks[i] = taskDef{fmt.Sprintf("t%02d", i), float64(rng.Intn(6))}
		}
		var deps [][2]string
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Intn(4) == 0 {
					deps = append(deps, [2]string{tasks[i].id, tasks[j].id})
				}
			}
		}

		g := buildTestGraph(t, tasks, deps...)
		result, err := Analyze(g, nil)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}

		path := result.CriticalPath
		if len(path) == 0 {
			t.Fatalf("round %d: empty critical path", round)
		}
		if g.InDegree(path[0]) != 0 {
			t.Errorf("round %d: path starts at non-source %s", round, path[0])
		}
		if g.OutDegree(path[len(path)-1]) != 0 {
			t.Errorf("round %d: path ends at non-sink %s", round, path[len(path)-1])
		}
		for i, id := range path {
			if !result.Tasks[id].IsCritical {
				t.Errorf("round %d: %s on path has slack %g", round, id, result.Tasks[id].Slack)
			}
			if i > 0 && !slices.Contains(g.Successors(path[i-1]), id) {
				t.Errorf("round %d: %s -> %s is not an edge", round, path[i-1], id)
			}
		}
		if got := PathDuration(g, path); math.Abs(got-result.Duration) > Tolerance(result.Duration) {
			t.Errorf("round %d: path duration %g, want %g", round, got, result.Duration)
		}
	}
}

func assertSchedule(t *testing.T, ts *TaskSchedule, es, ef, ls, lf, slack float64, critical bool) {
	t.Helper()
	if ts.ES != es {
		t.Errorf("task %s: expected ES=%v, got %v", ts.TaskID, es, ts.ES)
	}
	if ts.EF != ef {
		t.Errorf("task %s: expected EF=%v, got %v", ts.TaskID, ef, ts.EF)
	}
	if ts.LS != ls {
		t.Errorf("task %s: expected LS=%v, got %v", ts.TaskID, ls, ts.LS)
	}
	if ts.LF != lf {
		t.Errorf("task %s: expected LF=%v, got %v", ts.TaskID, lf, ts.LF)
	}
	if ts.Slack != slack {
		t.Errorf("task %s: expected slack=%v, got %v", ts.TaskID, slack, ts.Slack)
	}
	if ts.IsCritical != critical {
		t.Errorf("task %s: expected critical=%v, got %v", ts.TaskID, critical, ts.IsCritical)
	}
}
