package dag

import (
	"maps"
	"math"
	"slices"
)

// Metadata stores arbitrary key-value pairs attached to a task.
// It is opaque to the analyzer and never affects ordering or scoring.
type Metadata map[string]any

// Task is a unit of schedulable work.
//
// Duration is a non-negative weight in caller-defined units (minutes, story
// points, seconds). Resources names the shared resources the task requires
// while running; two tasks scheduled in the same wave that share a resource
// are reported as a conflict.
type Task struct {
	ID        string   // Unique identifier
	Name      string   // Display name (defaults to ID when empty)
	Duration  float64  // Non-negative duration weight
	Resources []string // Required resource identifiers
	Meta      Metadata // Arbitrary metadata
}

// Dependency states that To cannot start until From finishes.
type Dependency struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is an immutable, validated task dependency graph.
//
// A Graph is produced by [Build] and never modified afterwards, so it is safe
// for concurrent readers. Acyclicity is not checked by Build; it is verified
// by [Graph.TopoSort], which every analysis runs first.
type Graph struct {
	tasks    map[string]*Task
	ids      []string // sorted task IDs
	edges    []Dependency
	outgoing map[string][]string // task -> successors (sorted)
	incoming map[string][]string // task -> predecessors (sorted)
}

// Build validates tasks and dependencies and returns the resulting Graph.
//
// Validation runs in a fixed order and stops at the first failure:
//
//  1. Every task has a non-empty ID ("empty task id")
//  2. Task IDs are unique ("duplicate task")
//  3. Durations are finite and non-negative ("invalid duration")
//  4. Both endpoints of every dependency exist ("unknown task reference")
//  5. No dependency points a task at itself ("self dependency")
//
// Identical dependencies are deduplicated silently. Failures are returned as
// *[ValidationError], which matches [ErrValidation] under errors.Is.
//
// Task resources are copied, deduplicated and sorted; the caller's slices are
// never retained.
func Build(tasks []Task, deps []Dependency) (*Graph, error) {
	g := &Graph{
		tasks:    make(map[string]*Task, len(tasks)),
		ids:      make([]string, 0, len(tasks)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}

	for _, t := range tasks {
		if t.ID == "" {
			return nil, &ValidationError{Reason: ReasonEmptyID}
		}
		if _, exists := g.tasks[t.ID]; exists {
			return nil, &ValidationError{Reason: ReasonDuplicateTask, TaskID: t.ID}
		}
		if t.Duration < 0 || math.IsNaN(t.Duration) || math.IsInf(t.Duration, 0) {
			return nil, &ValidationError{Reason: ReasonInvalidDuration, TaskID: t.ID}
		}
		g.tasks[t.ID] = normalizeTask(t)
		g.ids = append(g.ids, t.ID)
	}
	slices.Sort(g.ids)

	for _, d := range deps {
		_, okFrom := g.tasks[d.From]
		_, okTo := g.tasks[d.To]
		if !okFrom || !okTo {
			edge := d
			return nil, &ValidationError{Reason: ReasonUnknownTask, Edge: &edge}
		}
	}

	seen := make(map[Dependency]bool, len(deps))
	for _, d := range deps {
		if d.From == d.To {
			edge := d
			return nil, &ValidationError{Reason: ReasonSelfDependency, TaskID: d.From, Edge: &edge}
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		g.edges = append(g.edges, d)
		g.outgoing[d.From] = append(g.outgoing[d.From], d.To)
		g.incoming[d.To] = append(g.incoming[d.To], d.From)
	}

	for _, succ := range g.outgoing {
		slices.Sort(succ)
	}
	for _, pred := range g.incoming {
		slices.Sort(pred)
	}
	slices.SortFunc(g.edges, compareDependency)

	return g, nil
}

func normalizeTask(t Task) *Task {
	if t.Name == "" {
		t.Name = t.ID
	}
	if len(t.Resources) > 0 {
		res := slices.Clone(t.Resources)
		slices.Sort(res)
		t.Resources = slices.Compact(res)
	} else {
		t.Resources = nil
	}
	if t.Meta != nil {
		t.Meta = maps.Clone(t.Meta)
	}
	return &t
}

func compareDependency(a, b Dependency) int {
	if a.From != b.From {
		if a.From < b.From {
			return -1
		}
		return 1
	}
	switch {
	case a.To < b.To:
		return -1
	case a.To > b.To:
		return 1
	}
	return 0
}

// Task returns the task with the given ID and true, or the zero Task and
// false if it does not exist. The returned value is a copy.
func (g *Graph) Task(id string) (Task, bool) {
	t, ok := g.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Duration returns the duration of the task, or 0 if it does not exist.
func (g *Graph) Duration(id string) float64 {
	if t, ok := g.tasks[id]; ok {
		return t.Duration
	}
	return 0
}

// Resources returns the sorted, deduplicated resources of the task.
// The returned slice must not be modified.
func (g *Graph) Resources(id string) []string {
	if t, ok := g.tasks[id]; ok {
		return t.Resources
	}
	return nil
}

// IDs returns all task IDs in ascending order.
func (g *Graph) IDs() []string { return slices.Clone(g.ids) }

// Tasks returns copies of all tasks ordered by ID.
func (g *Graph) Tasks() []Task {
	out := make([]Task, len(g.ids))
	for i, id := range g.ids {
		out[i] = *g.tasks[id]
	}
	return out
}

// Dependencies returns the deduplicated edges sorted by (From, To).
func (g *Graph) Dependencies() []Dependency { return slices.Clone(g.edges) }

// TaskCount returns the number of tasks.
func (g *Graph) TaskCount() int { return len(g.tasks) }

// EdgeCount returns the number of distinct dependencies.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the IDs of tasks that depend on id, sorted ascending.
// The returned slice is a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of tasks id depends on, sorted ascending.
// The returned slice is a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// InDegree returns the number of predecessors of id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of successors of id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// Sources returns tasks without predecessors, sorted ascending.
func (g *Graph) Sources() []string {
	var out []string
	for _, id := range g.ids {
		if len(g.incoming[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns tasks without successors, sorted ascending.
func (g *Graph) Sinks() []string {
	var out []string
	for _, id := range g.ids {
		if len(g.outgoing[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// TotalDuration returns the sum of all task durations, i.e. the fully
// serial execution time.
func (g *Graph) TotalDuration() float64 {
	var sum float64
	for _, id := range g.ids {
		sum += g.tasks[id].Duration
	}
	return sum
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
