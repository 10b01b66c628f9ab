package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/taskwave/pkg/dag"
)

func ExampleBuild() {
	// fetch must finish before compile and lint can start
	g, err := dag.Build(
		[]dag.Task{
			{ID: "fetch", Duration: 2},
			{ID: "compile", Duration: 3},
			{ID: "lint", Duration: 1},
		},
		[]dag.Dependency{
			{From: "fetch", To: "compile"},
			{From: "fetch", To: "lint"},
		},
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("Tasks:", g.TaskCount())
	fmt.Println("Successors of fetch:", g.Successors("fetch"))
	fmt.Println("Serial duration:", g.TotalDuration())
	// Output:
	// Tasks: 3
	// Successors of fetch: [compile lint]
	// Serial duration: 6
}

func ExampleGraph_TopoSort() {
	g, _ := dag.Build(
		[]dag.Task{{ID: "C"}, {ID: "B"}, {ID: "A"}},
		[]dag.Dependency{{From: "A", To: "B"}, {From: "A", To: "C"}},
	)
	order, _ := g.TopoSort()
	fmt.Println(order)
	// Output:
	// [A B C]
}

func ExampleCycleError() {
	g, _ := dag.Build(
		[]dag.Task{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]dag.Dependency{{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: "A"}},
	)
	_, err := g.TopoSort()

	var ce *dag.CycleError
	if errors.As(err, &ce) {
		fmt.Println("cycle:", ce.Tasks)
	}
	// Output:
	// cycle: [A B C]
}
