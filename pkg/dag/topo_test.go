package dag

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustBuild(t *testing.T, tasks []Task, deps []Dependency) *Graph {
	t.Helper()
	g, err := Build(tasks, deps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func ids(names ...string) []Task {
	tasks := make([]Task, len(names))
	for i, n := range names {
		tasks[i] = Task{ID: n, Duration: 1}
	}
	return tasks
}

func TestTopoSort(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		deps  []Dependency
		want  []string
	}{
		{
			name: "Empty",
			want: []string{},
		},
		{
			name:  "Independent",
			tasks: ids("c", "a", "b"),
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "FanOut",
			tasks: ids("A", "B", "C"),
			deps:  []Dependency{{From: "A", To: "C"}, {From: "A", To: "B"}},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "LowestReadyFirst",
			tasks: ids("a", "b", "z", "y"),
			deps:  []Dependency{{From: "z", To: "a"}, {From: "y", To: "b"}},
			want:  []string{"y", "b", "z", "a"},
		},
		{
			name:  "Diamond",
			tasks: ids("d", "c", "b", "a"),
			deps: []Dependency{
				{From: "a", To: "b"}, {From: "a", To: "c"},
				{From: "b", To: "d"}, {From: "c", To: "d"},
			},
			want: []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, tt.tasks, tt.deps)
			got, err := g.TopoSort()
			if err != nil {
				t.Fatalf("TopoSort: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopoSortRespectsEdges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := 2 + rng.Intn(20)
		tasks := make([]Task, n)
		for i := range tasks {
			tasks[i] = Task{ID: fmt.Sprintf("t%02d", i)}
		}
		var deps []Dependency
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Intn(4) == 0 {
					deps = append(deps, Dependency{From: tasks[j].ID, To: tasks[i].ID})
				}
			}
		}

		g := mustBuild(t, tasks, deps)
		order, err := g.TopoSort()
		if err != nil {
			t.Fatalf("round %d: TopoSort: %v", round, err)
		}
		pos := PosMap(order)
		for _, d := range deps {
			if pos[d.From] >= pos[d.To] {
				t.Fatalf("round %d: edge %s->%s violated by order %v", round, d.From, d.To, order)
			}
		}
	}
}

func TestTopoSortDeterministic(t *testing.T) {
	tasks := ids("e", "d", "c", "b", "a")
	deps := []Dependency{{From: "a", To: "e"}, {From: "b", To: "e"}, {From: "c", To: "d"}}

	reversedTasks := make([]Task, len(tasks))
	for i := range tasks {
		reversedTasks[len(tasks)-1-i] = tasks[i]
	}
	reversedDeps := []Dependency{deps[2], deps[1], deps[0]}

	first, err := mustBuild(t, tasks, deps).TopoSort()
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := mustBuild(t, reversedTasks, reversedDeps).TopoSort()
		if err != nil {
			t.Fatalf("TopoSort: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("order not reproducible (-first +again):\n%s", diff)
		}
	}
}

func TestTopoSortCycle(t *testing.T) {
	g := mustBuild(t, ids("A", "B", "C"), []Dependency{
		{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: "A"},
	})

	_, err := g.TopoSort()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("TopoSort error = %v, want ErrCycle", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *CycleError", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, ce.Tasks); diff != "" {
		t.Errorf("cycle tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestTopoSortCycleExcludesDownstream(t *testing.T) {
	// root -> A -> B -> A, B -> tail, plus an independent task.
	g := mustBuild(t, ids("root", "A", "B", "tail", "solo"), []Dependency{
		{From: "root", To: "A"},
		{From: "A", To: "B"},
		{From: "B", To: "A"},
		{From: "B", To: "tail"},
	})

	_, err := g.TopoSort()
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("TopoSort error = %v, want *CycleError", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, ce.Tasks); diff != "" {
		t.Errorf("cycle tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "tail"}, ce.Unresolved); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestTopoSortTwoCycles(t *testing.T) {
	g := mustBuild(t, ids("a", "b", "c", "x", "y"), []Dependency{
		{From: "a", To: "b"}, {From: "b", To: "a"},
		{From: "x", To: "y"}, {From: "y", To: "x"},
		{From: "b", To: "c"},
	})
	_, err := g.TopoSort()
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("TopoSort error = %v, want *CycleError", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "x", "y"}, ce.Tasks); diff != "" {
		t.Errorf("cycle tasks mismatch (-want +got):\n%s", diff)
	}
}
