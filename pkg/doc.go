// Package pkg provides the core libraries for Taskwave task scheduling analysis.
//
// # Overview
//
// Taskwave takes a set of tasks with durations, shared resources and
// dependencies, and reports how the work can be scheduled: a deterministic
// execution order, the critical path, the waves of tasks that may run in
// parallel, the resource conflicts inside those waves, and a single
// parallelization score between 0 and 100.
//
// # Architecture
//
// The typical data flow through Taskwave:
//
//	Manifest (JSON / YAML / TOML) or source tree
//	         ↓
//	    [io] / [deps] packages (load or discover tasks)
//	         ↓
//	    [dag] package (validated graph + topological order)
//	         ↓
//	    [cpm] and [dag/transform] packages (schedule + waves)
//	         ↓
//	    [analysis] package (conflicts, score, cached report)
//	         ↓
//	    JSON report or DOT/SVG/PDF/PNG diagram
//
// # Quick Start
//
// Analyze a manifest:
//
//	m, err := io.ImportManifest("build.yaml")
//	if err != nil {
//	    return err
//	}
//	tasks, deps, err := m.Graph()
//	if err != nil {
//	    return err
//	}
//	report, err := analysis.Run(tasks, deps, analysis.DefaultConflictPenalty)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.CriticalPath, report.Score)
//
// Long-running callers share an [analysis.Analyzer], which memoizes reports
// by fingerprint:
//
//	a, _ := analysis.New(analysis.Options{CacheCapacity: 256})
//	report, err := a.Analyze(ctx, tasks, deps)
//
// # Main Packages
//
// [dag] - Task graph construction and validation. Rejects duplicate IDs,
// unknown endpoints, self-dependencies and negative durations. Sorts tasks
// with Kahn's algorithm, breaking ties by lowest ID, and reports cycles as
// a [dag.CycleError].
//
// [dag/transform] - Generations (execution waves) and redundant edges.
//
// [cpm] - Critical path method: earliest/latest start and finish, slack,
// and the lexicographically smallest zero-slack path.
//
// [analysis] - Resource conflict detection, the parallelization score,
// canonical fingerprints and the bounded report cache.
//
// [io] - Manifest reading and writing in JSON, YAML and TOML.
//
// [deps] - Task discovery from source trees. [deps/golang] turns the
// package import graph of a Go module into a task manifest.
//
// [render/nodelink] - Graphviz diagrams with the critical path, waves and
// conflicts highlighted. [render] converts SVG to PDF and PNG.
//
// [cache] - Second-tier storage for reports and rendered artifacts: file,
// Redis and MongoDB backends.
//
// [errors] - Structured errors with stable codes shared by the CLI and the
// HTTP API.
//
// [observability] - Hooks for analysis, cache and HTTP events.
//
// [buildinfo] - Version information injected at link time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/analysis/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/dag/transform
// [cpm]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/cpm
// [analysis]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/analysis
// [io]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/io
// [deps]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/deps
// [deps/golang]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/deps/golang
// [render]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/taskwave/pkg/buildinfo
package pkg
