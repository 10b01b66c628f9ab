package transform

import (
	"slices"

	"github.com/matzehuels/taskwave/pkg/dag"
)

// WaveIndex assigns every task the index of the execution wave it belongs to.
//
// A task without predecessors is in wave 0. Any other task is in wave
// 1 + max(wave of its predecessors), so its wave index equals the number of
// edges on the longest dependency chain ending at it. All predecessors of a
// task therefore complete in strictly earlier waves.
//
// # Algorithm
//
// WaveIndex makes a single pass over order, which must be a topological
// order of g such as the one returned by [dag.Graph.TopoSort]. Predecessors
// appear before their successors, so each task's wave is final by the time
// it is visited.
//
// Time complexity is O(V + E).
func WaveIndex(g *dag.Graph, order []string) map[string]int {
	waves := make(map[string]int, len(order))
	for _, id := range order {
		wave := 0
		for _, pred := range g.Predecessors(id) {
			if w := waves[pred] + 1; w > wave {
				wave = w
			}
		}
		waves[id] = wave
	}
	return waves
}

// Generations groups tasks into execution waves.
//
// The result is indexed by wave (0..max); each group holds every task with
// that wave index, sorted ascending by ID. Tasks in the same group have no
// dependency path between them and can run concurrently, resource conflicts
// aside. An empty graph yields an empty, non-nil slice.
//
// order must be a topological order of g; see [WaveIndex].
func Generations(g *dag.Graph, order []string) [][]string {
	waves := WaveIndex(g, order)

	maxWave := -1
	for _, w := range waves {
		maxWave = max(maxWave, w)
	}

	groups := make([][]string, maxWave+1)
	for _, id := range order {
		w := waves[id]
		groups[w] = append(groups[w], id)
	}
	for _, group := range groups {
		slices.Sort(group)
	}
	return groups
}
