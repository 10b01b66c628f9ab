// Package cpm implements the Critical Path Method over a task graph.
//
// [Analyze] runs a forward pass to compute each task's earliest start and
// finish, then a backward pass from the project duration to compute latest
// start, latest finish and slack. Tasks with zero slack cannot slip without
// delaying the whole project.
//
// Among all zero-slack source-to-sink paths, [CriticalPath] returns the one
// whose task IDs are lexicographically smallest, so repeated runs over the
// same graph always report the same path.
package cpm
