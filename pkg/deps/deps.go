package deps

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/taskwave/pkg/dag"
)

// DefaultDuration is assigned to discovered tasks that carry no better
// duration estimate.
const DefaultDuration = 1.0

// Options configures dependency discovery.
type Options struct {
	DefaultDuration float64              // Duration for tasks without an estimate (default: 1)
	Exclude         []string             // Path patterns to skip (filepath.Match syntax)
	Logger          func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultDuration
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Result is a discovered task set, ready for analysis.
type Result struct {
	Tasks        []dag.Task
	Dependencies []dag.Dependency
	Source       string // Discoverer that produced the result
}

// Discoverer derives tasks and "must finish first" edges from an external
// source, such as the import graph of a source tree.
type Discoverer interface {
	// Name returns the discoverer identifier (e.g., "go-imports").
	Name() string
	// Supports reports whether the discoverer can handle root.
	Supports(root string) bool
	// Discover scans root and returns the discovered task set.
	Discover(ctx context.Context, root string, opts Options) (*Result, error)
}

// Detect returns the first discoverer that supports root.
func Detect(root string, discoverers ...Discoverer) (Discoverer, error) {
	for _, d := range discoverers {
		if d.Supports(root) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no discoverer supports %s", root)
}

// Static is a Discoverer that returns a fixed task set. It lets callers feed
// hand-written dependencies through the same path as discovered ones.
type Static struct {
	Tasks        []dag.Task
	Dependencies []dag.Dependency
}

// Name implements [Discoverer].
func (Static) Name() string { return "static" }

// Supports implements [Discoverer]; a static set supports any root.
func (Static) Supports(string) bool { return true }

// Discover implements [Discoverer].
func (s Static) Discover(ctx context.Context, _ string, _ Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{
		Tasks:        slices.Clone(s.Tasks),
		Dependencies: slices.Clone(s.Dependencies),
		Source:       s.Name(),
	}, nil
}

// Merge combines several results. When two results define the same task
// the first definition wins; duplicate dependencies are kept once. Task and
// dependency order follows the inputs.
func Merge(results ...*Result) *Result {
	merged := &Result{Source: "merged"}
	seenTask := make(map[string]bool)
	seenDep := make(map[dag.Dependency]bool)

	for _, r := range results {
		if r == nil {
			continue
		}
		for _, t := range r.Tasks {
			if seenTask[t.ID] {
				continue
			}
			seenTask[t.ID] = true
			merged.Tasks = append(merged.Tasks, t)
		}
		for _, d := range r.Dependencies {
			if seenDep[d] {
				continue
			}
			seenDep[d] = true
			merged.Dependencies = append(merged.Dependencies, d)
		}
	}
	return merged
}
