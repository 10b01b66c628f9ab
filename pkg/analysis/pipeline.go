package analysis

import (
	"github.com/matzehuels/taskwave/pkg/cpm"
	"github.com/matzehuels/taskwave/pkg/dag"
	"github.com/matzehuels/taskwave/pkg/dag/transform"
)

// Run executes the full analysis pipeline without caching:
//
//	Build → TopoSort → cpm.Analyze → Generations → DetectConflicts → Score
//
// Run is pure and deterministic: identical input always produces an
// identical report. Validation and cycle failures are returned unchanged as
// *[dag.ValidationError] and *[dag.CycleError]; no partial report is
// produced. An empty task set yields empty slices, zero durations and a
// score of 100.
func Run(tasks []dag.Task, deps []dag.Dependency, penalty int) (*Report, error) {
	g, err := dag.Build(tasks, deps)
	if err != nil {
		return nil, err
	}
	r, err := RunGraph(g, penalty)
	if err != nil {
		return nil, err
	}
	r.Fingerprint = Fingerprint(tasks, deps)
	return r, nil
}

// RunGraph analyzes an already built graph. The returned report has no
// fingerprint set.
func RunGraph(g *dag.Graph, penalty int) (*Report, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	sched, err := cpm.Analyze(g, order)
	if err != nil {
		return nil, err
	}

	generations := transform.Generations(g, order)
	conflicts := DetectConflicts(g, generations)
	total := g.TotalDuration()

	redundant := transform.RedundantEdges(g)
	if redundant == nil {
		redundant = []dag.Dependency{}
	}

	return &Report{
		Order: order,
		CriticalPath: CriticalPath{
			Tasks:    sched.CriticalPath,
			Duration: sched.Duration,
		},
		Generations:    generations,
		Conflicts:      conflicts,
		Score:          Score(total, sched.Duration, len(conflicts), penalty),
		TotalDuration:  total,
		RedundantEdges: redundant,
	}, nil
}
