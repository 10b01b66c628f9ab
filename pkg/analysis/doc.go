// Package analysis turns a task set into a scheduling report.
//
// # Pipeline
//
// [Run] is the pure entry point. It validates the input with [dag.Build],
// orders it with [dag.Graph.TopoSort], computes the critical path with
// [cpm.Analyze], groups tasks into waves with [transform.Generations],
// detects resource conflicts with [DetectConflicts] and rates the result
// with [Score].
//
// # Caching
//
// [Analyzer] wraps Run with a [Cache] keyed by [Fingerprint], a BLAKE3
// digest of the canonical graph encoding. Changing any task, duration,
// resource or dependency changes the fingerprint, so a cached report is
// never stale. Reordering tasks or repeating a dependency does not.
//
//	a, err := analysis.New(analysis.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	report, err := a.Analyze(ctx, tasks, deps)
//
// # Scoring
//
// The score is floor(100 × (1 − critical/serial)) minus
// [DefaultConflictPenalty] points per conflicting pair, clamped to [0, 100].
// An empty or all-zero-duration task set scores 100.
package analysis
