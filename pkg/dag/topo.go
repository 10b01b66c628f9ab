package dag

import (
	"container/heap"
	"slices"
)

// TopoSort returns the task IDs in an order that respects every dependency.
//
// TopoSort uses Kahn's algorithm. The ready set is a min-heap keyed by task
// ID, so whenever several tasks are ready the lowest ID is emitted first.
// Identical graphs therefore always produce identical orders, regardless of
// the order in which tasks and dependencies were supplied to [Build].
//
// If the graph contains a cycle, TopoSort returns a *[CycleError] naming the
// tasks on the cycle(s) and every task left unresolved.
//
// Time complexity is O((V + E) log V).
func (g *Graph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.ids))
	ready := &idHeap{}
	for _, id := range g.ids {
		inDegree[id] = len(g.incoming[id])
		if inDegree[id] == 0 {
			*ready = append(*ready, id)
		}
	}
	heap.Init(ready)

	order := make([]string, 0, len(g.ids))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		for _, succ := range g.outgoing[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				heap.Push(ready, succ)
			}
		}
	}

	if len(order) == len(g.ids) {
		return order, nil
	}

	var unresolved []string
	for _, id := range g.ids {
		if inDegree[id] > 0 {
			unresolved = append(unresolved, id)
		}
	}
	return nil, &CycleError{
		Tasks:      g.cycleMembers(unresolved),
		Unresolved: unresolved,
	}
}

// cycleMembers returns the tasks among unresolved that belong to a strongly
// connected component of more than one task (Tarjan's algorithm). Self loops
// are rejected by Build, so single-task components are never cycles.
func (g *Graph) cycleMembers(unresolved []string) []string {
	inScope := make(map[string]bool, len(unresolved))
	for _, id := range unresolved {
		inScope[id] = true
	}

	var (
		index   = make(map[string]int, len(unresolved))
		lowlink = make(map[string]int, len(unresolved))
		onStack = make(map[string]bool, len(unresolved))
		stack   []string
		next    int
		members []string
	)

	var strongConnect func(id string)
	strongConnect = func(id string) {
		index[id] = next
		lowlink[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, succ := range g.outgoing[id] {
			if !inScope[succ] {
				continue
			}
			if _, visited := index[succ]; !visited {
				strongConnect(succ)
				lowlink[id] = min(lowlink[id], lowlink[succ])
			} else if onStack[succ] {
				lowlink[id] = min(lowlink[id], index[succ])
			}
		}

		if lowlink[id] != index[id] {
			return
		}
		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 {
			members = append(members, component...)
		}
	}

	for _, id := range unresolved {
		if _, visited := index[id]; !visited {
			strongConnect(id)
		}
	}

	slices.Sort(members)
	return members
}

// idHeap is a min-heap of task IDs.
type idHeap []string

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
