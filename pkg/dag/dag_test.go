package dag

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild(t *testing.T) {
	g, err := Build(
		[]Task{
			{ID: "c", Duration: 1, Resources: []string{"db", "cache", "db"}},
			{ID: "a", Duration: 2},
			{ID: "b", Name: "Build", Duration: 3},
		},
		[]Dependency{{From: "a", To: "c"}, {From: "a", To: "b"}, {From: "a", To: "b"}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.TaskCount() != 3 {
		t.Errorf("TaskCount = %d, want 3", g.TaskCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2 (duplicate edge should be merged)", g.EdgeCount())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, g.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, g.Successors("a")); diff != "" {
		t.Errorf("Successors(a) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, g.Predecessors("c")); diff != "" {
		t.Errorf("Predecessors(c) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cache", "db"}, g.Resources("c")); diff != "" {
		t.Errorf("Resources(c) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, g.Sources()); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, g.Sinks()); diff != "" {
		t.Errorf("Sinks mismatch (-want +got):\n%s", diff)
	}
	if got := g.TotalDuration(); got != 6 {
		t.Errorf("TotalDuration = %v, want 6", got)
	}

	a, ok := g.Task("a")
	if !ok || a.Name != "a" {
		t.Errorf("Task(a) = %+v, %v; want Name defaulted to ID", a, ok)
	}
	b, _ := g.Task("b")
	if b.Name != "Build" {
		t.Errorf("Task(b).Name = %q, want %q", b.Name, "Build")
	}
}

func TestBuildDoesNotRetainInput(t *testing.T) {
	res := []string{"db"}
	g, err := Build([]Task{{ID: "a", Resources: res}}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res[0] = "changed"
	if got := g.Resources("a"); got[0] != "db" {
		t.Errorf("Resources(a) = %v, graph must not alias caller slices", got)
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name   string
		tasks  []Task
		deps   []Dependency
		reason string
	}{
		{
			name:   "EmptyID",
			tasks:  []Task{{ID: ""}},
			reason: ReasonEmptyID,
		},
		{
			name:   "DuplicateTask",
			tasks:  []Task{{ID: "a"}, {ID: "a"}},
			reason: ReasonDuplicateTask,
		},
		{
			name:   "NegativeDuration",
			tasks:  []Task{{ID: "a", Duration: -1}},
			reason: ReasonInvalidDuration,
		},
		{
			name:   "NaNDuration",
			tasks:  []Task{{ID: "a", Duration: math.NaN()}},
			reason: ReasonInvalidDuration,
		},
		{
			name:   "UnknownFrom",
			tasks:  []Task{{ID: "a"}},
			deps:   []Dependency{{From: "x", To: "a"}},
			reason: ReasonUnknownTask,
		},
		{
			name:   "UnknownTo",
			tasks:  []Task{{ID: "a"}},
			deps:   []Dependency{{From: "a", To: "x"}},
			reason: ReasonUnknownTask,
		},
		{
			name:   "SelfDependency",
			tasks:  []Task{{ID: "a"}},
			deps:   []Dependency{{From: "a", To: "a"}},
			reason: ReasonSelfDependency,
		},
		{
			name:   "UnknownBeforeSelf",
			tasks:  []Task{{ID: "a"}},
			deps:   []Dependency{{From: "x", To: "x"}},
			reason: ReasonUnknownTask,
		},
		{
			name:   "UnknownInLaterEdgeBeforeSelf",
			tasks:  []Task{{ID: "A"}},
			deps:   []Dependency{{From: "A", To: "A"}, {From: "A", To: "Z"}},
			reason: ReasonUnknownTask,
		},
		{
			name:   "DuplicateBeforeEdges",
			tasks:  []Task{{ID: "a"}, {ID: "a"}},
			deps:   []Dependency{{From: "a", To: "zzz"}},
			reason: ReasonDuplicateTask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.tasks, tt.deps)
			if err == nil {
				t.Fatal("Build succeeded, want validation error")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("errors.Is(err, ErrValidation) = false for %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			if ve.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", ve.Reason, tt.reason)
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	g, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build(nil, nil): %v", err)
	}
	if g.TaskCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty graph has %d tasks, %d edges", g.TaskCount(), g.EdgeCount())
	}
	if g.Sources() != nil || g.Sinks() != nil {
		t.Error("empty graph should have no sources or sinks")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Reason: ReasonUnknownTask, Edge: &Dependency{From: "a", To: "b"}}
	if got, want := err.Error(), "unknown task reference: a -> b"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = &ValidationError{Reason: ReasonDuplicateTask, TaskID: "a"}
	if got, want := err.Error(), "duplicate task: a"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
