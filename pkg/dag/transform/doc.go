// Package transform derives structure from a validated task graph.
//
// # Overview
//
// The functions here are pure: they read a [dag.Graph] and return new values
// without modifying it.
//
// # Generations
//
// [Generations] partitions tasks into execution waves. A task's wave is the
// length of the longest dependency chain ending at it, so every task in wave
// n depends only on tasks in waves 0..n-1:
//
//	fetch ─┬─> compile ─> package
//	       └─> lint
//
//	wave 0: [fetch]
//	wave 1: [compile lint]
//	wave 2: [package]
//
// [WaveIndex] exposes the per-task wave number used to build the groups.
//
// # Redundant Edges
//
// [RedundantEdges] finds dependencies already implied by longer paths
// (the edges a transitive reduction would remove). If A→B and B→C exist,
// then A→C is redundant.
//
// # Usage
//
//	order, err := g.TopoSort()
//	if err != nil {
//	    return err
//	}
//	waves := transform.Generations(g, order)
//	extra := transform.RedundantEdges(g)
package transform
