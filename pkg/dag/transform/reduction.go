package transform

import "github.com/matzehuels/taskwave/pkg/dag"

// RedundantEdges returns the dependencies implied by longer paths.
//
// An edge (u, v) is redundant when u reaches v through at least one
// intermediate task: if A→B, B→C and A→C all exist, A→C adds no ordering
// constraint. Redundant edges never change the topological order, the
// critical path or the generations; they are reported so callers can
// simplify their task definitions.
//
// # Algorithm
//
// RedundantEdges computes the reachability of every task with one DFS per
// task, then flags (u, v) when some other successor w of u reaches v.
//
// Time complexity is O(V·(V + E)) and space is O(V²). The graph must be
// acyclic.
//
// The result is sorted by (From, To). An edge-free graph yields nil.
func RedundantEdges(g *dag.Graph) []dag.Dependency {
	ids := g.IDs()
	if len(ids) == 0 {
		return nil
	}

	index := dag.PosMap(ids)
	adjacency := make([][]int, len(ids))
	for _, e := range g.Dependencies() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachable := computeReachability(adjacency)

	var redundant []dag.Dependency
	for _, e := range g.Dependencies() {
		src, dst := index[e.From], index[e.To]
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachable[intermediate][dst] {
				redundant = append(redundant, e)
				break
			}
		}
	}
	return redundant
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
