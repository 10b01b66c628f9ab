package analysis

import "github.com/matzehuels/taskwave/pkg/dag"

// DetectConflicts reports every pair of tasks that share a wave and at least
// one resource.
//
// Each wave is scanned pairwise. Conflicts are ordered by wave, then TaskA,
// then TaskB, and SharedResources is sorted. The generations are not
// modified: deciding whether to serialize a conflicting pair is left to the
// caller. The result is never nil.
func DetectConflicts(g *dag.Graph, generations [][]string) []Conflict {
	conflicts := []Conflict{}
	for wave, group := range generations {
		for i := 0; i < len(group); i++ {
			a := g.Resources(group[i])
			if len(a) == 0 {
				continue
			}
			for j := i + 1; j < len(group); j++ {
				shared := intersectSorted(a, g.Resources(group[j]))
				if len(shared) == 0 {
					continue
				}
				taskA, taskB := group[i], group[j]
				if taskB < taskA {
					taskA, taskB = taskB, taskA
				}
				conflicts = append(conflicts, Conflict{
					TaskA:           taskA,
					TaskB:           taskB,
					SharedResources: shared,
					Wave:            wave,
				})
			}
		}
	}
	return conflicts
}

// intersectSorted merges two ascending, duplicate-free slices.
func intersectSorted(a, b []string) []string {
	var out []string
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
