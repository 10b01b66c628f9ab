// Package dag provides the validated task dependency graph that every
// taskwave analysis runs on.
//
// # Overview
//
// A task set arrives as a list of [Task] values plus a list of [Dependency]
// edges, where an edge From→To means To cannot start until From finishes.
// [Build] validates the input and returns an immutable [Graph] exposing
// forward ([Graph.Successors]) and reverse ([Graph.Predecessors]) adjacency.
//
// # Basic Usage
//
//	g, err := dag.Build(
//	    []dag.Task{{ID: "fetch", Duration: 2}, {ID: "build", Duration: 3}},
//	    []dag.Dependency{{From: "fetch", To: "build"}},
//	)
//	if err != nil {
//	    return err
//	}
//	order, err := g.TopoSort()
//
// # Validation
//
// Build rejects empty or duplicate task IDs, negative durations, edges that
// reference unknown tasks, and self dependencies, in that order. Duplicate
// edges are silently merged. Failures are *[ValidationError] values that
// match [ErrValidation].
//
// Build does not check for cycles. [Graph.TopoSort] does, and reports a
// *[CycleError] naming the tasks involved.
//
// # Determinism
//
// Adjacency lists are sorted and [Graph.TopoSort] always emits the lowest
// ready task ID first, so analyses of identical task sets are byte-for-byte
// reproducible no matter how the input was ordered.
//
// # Concurrency
//
// A Graph is never modified after Build returns and is safe for concurrent
// readers.
//
// # Related Packages
//
// The [transform] subpackage groups tasks into execution waves and finds
// redundant edges.
//
// [transform]: github.com/matzehuels/taskwave/pkg/dag/transform
package dag
