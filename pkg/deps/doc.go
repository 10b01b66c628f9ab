// Package deps discovers task dependencies from external sources.
//
// # Overview
//
// The analyzer consumes an already assembled list of tasks and
// (from, to) dependencies. This package produces such lists from sources
// other than a hand-written manifest:
//
//   - [Static]: a fixed task set, useful for tests and for merging manual
//     edges into discovered ones
//   - [golang.Imports]: packages of a Go module as tasks, with an edge from
//     every imported package to each package that imports it
//
// # Discovering
//
//	d := golang.Imports{}
//	res, err := d.Discover(ctx, "./myrepo", deps.Options{})
//	if err != nil {
//	    return err
//	}
//	report, err := analyzer.Analyze(ctx, res.Tasks, res.Dependencies)
//
// Results from several discoverers can be combined with [Merge].
//
// [golang.Imports]: github.com/matzehuels/taskwave/pkg/deps/golang.Imports
package deps
