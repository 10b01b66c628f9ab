package analysis

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/matzehuels/taskwave/pkg/dag"
)

// canonicalTask is the hashed form of a task. Only fields that influence a
// report take part; names and metadata do not.
type canonicalTask struct {
	ID        string   `json:"id"`
	Duration  string   `json:"duration"`
	Resources []string `json:"resources"`
}

type canonicalGraph struct {
	Tasks []canonicalTask `json:"tasks"`
	Edges [][2]string     `json:"edges"`
}

// Canonicalize returns the canonical JSON encoding of a task set.
//
// Tasks are sorted by ID and their resources deduplicated and sorted;
// dependencies are deduplicated and sorted by (From, To). Two inputs that
// describe the same graph therefore encode identically regardless of input
// order, while any change to a task, duration, resource or edge changes the
// encoding. Durations are encoded in their shortest exact decimal form so
// that values JSON cannot represent (NaN, Inf) still hash; such input is
// rejected later by [dag.Build].
func Canonicalize(tasks []dag.Task, deps []dag.Dependency) []byte {
	cg := canonicalGraph{
		Tasks: make([]canonicalTask, len(tasks)),
		Edges: make([][2]string, 0, len(deps)),
	}
	for i, t := range tasks {
		res := slices.Clone(t.Resources)
		slices.Sort(res)
		res = slices.Compact(res)
		if res == nil {
			res = []string{}
		}
		d := t.Duration
		if d == 0 {
			d = 0 // fold -0
		}
		cg.Tasks[i] = canonicalTask{
			ID:        t.ID,
			Duration:  strconv.FormatFloat(d, 'g', -1, 64),
			Resources: res,
		}
	}
	slices.SortFunc(cg.Tasks, func(a, b canonicalTask) int {
		return cmp.Or(
			cmp.Compare(a.ID, b.ID),
			cmp.Compare(a.Duration, b.Duration),
			slices.Compare(a.Resources, b.Resources),
		)
	})

	for _, d := range deps {
		cg.Edges = append(cg.Edges, [2]string{d.From, d.To})
	}
	slices.SortFunc(cg.Edges, func(a, b [2]string) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
	})
	cg.Edges = slices.Compact(cg.Edges)

	data, _ := json.Marshal(cg)
	return data
}

// Fingerprint returns the hex BLAKE3 digest of the canonical encoding of a
// task set. It identifies a graph for caching.
func Fingerprint(tasks []dag.Task, deps []dag.Dependency) string {
	return fmt.Sprintf("%x", blake3.Sum256(Canonicalize(tasks, deps)))
}
