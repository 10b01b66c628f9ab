package cpm

import (
	"math"

	"github.com/matzehuels/taskwave/pkg/dag"
)

// Epsilon is the absolute tolerance used when comparing schedule times.
// Durations are floating point, so slack computed through subtraction may be
// off by a few ulps from the exact value.
const Epsilon = 1e-9

// RelativeEpsilon bounds the rounding error of large schedules as a fraction
// of the project duration. It sits a few thousand ulps above float64
// precision.
const RelativeEpsilon = 1e-12

// Tolerance returns the tolerance for comparing times in a schedule of the
// given project duration: the larger of Epsilon and RelativeEpsilon scaled
// by the duration.
func Tolerance(duration float64) float64 {
	return math.Max(Epsilon, RelativeEpsilon*duration)
}

// Analyze performs critical path method analysis on g.
//
// order must be a topological order of g. If it is nil, Analyze computes one
// with [dag.Graph.TopoSort] and returns its *[dag.CycleError] unchanged when
// the graph is cyclic.
//
// The forward pass computes earliest start/finish (EF = duration + max EF of
// predecessors). The project duration is the largest EF of any sink. The
// backward pass computes latest finish (the project duration for sinks,
// otherwise the smallest latest start of any successor) and slack = LF - EF.
//
// The critical path is the lexicographically smallest zero-slack path from a
// source to a sink. See [CriticalPath].
func Analyze(g *dag.Graph, order []string) (*Result, error) {
	if order == nil {
		var err error
		if order, err = g.TopoSort(); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Tasks: make(map[string]*TaskSchedule, len(order)),
		Order: order,
	}
	for _, id := range order {
		result.Tasks[id] = &TaskSchedule{TaskID: id}
	}

	// Forward pass
	for _, id := range order {
		ts := result.Tasks[id]
		es := 0.0
		for _, pred := range g.Predecessors(id) {
			es = math.Max(es, result.Tasks[pred].EF)
		}
		ts.ES = es
		ts.EF = es + g.Duration(id)
	}

	for _, id := range order {
		if g.OutDegree(id) == 0 {
			result.Duration = math.Max(result.Duration, result.Tasks[id].EF)
		}
	}

	// Backward pass
	tol := Tolerance(result.Duration)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Tasks[id]

		lf := result.Duration
		for _, succ := range g.Successors(id) {
			lf = math.Min(lf, result.Tasks[succ].LS)
		}
		ts.LF = lf
		ts.LS = lf - g.Duration(id)
		ts.Slack = ts.LF - ts.EF
		ts.IsCritical = math.Abs(ts.Slack) < tol
	}

	result.CriticalPath = CriticalPath(g, result)
	return result, nil
}

// CriticalPath extracts the critical path from a completed schedule.
//
// The path starts at the lowest-ID zero-slack task without predecessors and
// repeatedly follows the lowest-ID successor that has zero slack and starts
// exactly when the current task finishes, until it reaches a task without
// successors. Every path candidate starts with a distinct task at each
// branching point, so this greedy walk yields the path whose task IDs are
// lexicographically smallest when compared position by position.
//
// A zero-slack task always has such a successor unless it is a sink, and
// every zero-slack sink finishes at the project duration, so the durations
// along the returned path sum to the project duration. An empty graph yields
// an empty, non-nil path.
func CriticalPath(g *dag.Graph, r *Result) []string {
	path := []string{}
	tol := Tolerance(r.Duration)

	current := ""
	for _, id := range g.Sources() {
		if ts, ok := r.Tasks[id]; ok && ts.IsCritical {
			current = id
			break
		}
	}
	if current == "" {
		return path
	}

	for {
		path = append(path, current)
		finish := r.Tasks[current].EF
		next := ""
		for _, succ := range g.Successors(current) {
			ts := r.Tasks[succ]
			if ts.IsCritical && math.Abs(ts.ES-finish) < tol {
				next = succ
				break
			}
		}
		if next == "" {
			return path
		}
		current = next
	}
}

// PathDuration sums the durations of the tasks in path.
func PathDuration(g *dag.Graph, path []string) float64 {
	var sum float64
	for _, id := range path {
		sum += g.Duration(id)
	}
	return sum
}
