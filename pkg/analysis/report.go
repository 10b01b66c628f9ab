package analysis

import (
	"slices"

	"github.com/matzehuels/taskwave/pkg/dag"
)

// Report is the result of analyzing one task graph.
//
// A Report is a plain value: it carries no references to the graph it was
// computed from and serializes directly to the JSON consumed by the CLI, the
// HTTP API and the renderers.
type Report struct {
	Fingerprint    string           `json:"fingerprint"`
	Order          []string         `json:"order"`
	CriticalPath   CriticalPath     `json:"critical_path"`
	Generations    [][]string       `json:"generations"`
	Conflicts      []Conflict       `json:"conflicts"`
	Score          int              `json:"score"`
	TotalDuration  float64          `json:"total_duration"` // serial sum of all durations
	RedundantEdges []dag.Dependency `json:"redundant_edges"`
}

// CriticalPath is the longest chain of tasks through the graph.
type CriticalPath struct {
	Tasks    []string `json:"tasks"`
	Duration float64  `json:"duration"`
}

// Conflict reports two tasks in the same wave that require a common
// resource. TaskA sorts before TaskB.
type Conflict struct {
	TaskA           string   `json:"task_a"`
	TaskB           string   `json:"task_b"`
	SharedResources []string `json:"shared_resources"`
	Wave            int      `json:"wave"`
}

// Clone returns a deep copy of r.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	out.Order = slices.Clone(r.Order)
	out.CriticalPath.Tasks = slices.Clone(r.CriticalPath.Tasks)
	out.Generations = make([][]string, len(r.Generations))
	for i, g := range r.Generations {
		out.Generations[i] = slices.Clone(g)
	}
	out.Conflicts = make([]Conflict, len(r.Conflicts))
	for i, c := range r.Conflicts {
		c.SharedResources = slices.Clone(c.SharedResources)
		out.Conflicts[i] = c
	}
	out.RedundantEdges = slices.Clone(r.RedundantEdges)
	return &out
}
