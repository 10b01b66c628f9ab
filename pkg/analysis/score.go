package analysis

import "math"

// DefaultConflictPenalty is the number of points each resource conflict
// subtracts from the parallelization score.
const DefaultConflictPenalty = 5

// Score rates how much concurrency a task set admits, from 0 to 100.
//
// The base score is floor(100 × (1 − critical/serialSum)) clamped to
// [0, 100], where serialSum is the fully serial execution time and critical
// is the critical path duration. A serialSum of zero (no tasks, or only
// zero-duration tasks) scores 100. Each conflict then subtracts penalty
// points, never going below zero.
//
// For tasks A(2), B(3) and C(1) where B and C depend on A, the critical
// path takes 5 of 6 serial units: the base score is 16, and 11 if B and C
// also share a resource.
func Score(serialSum, critical float64, conflicts, penalty int) int {
	base := 100
	if serialSum > 0 {
		// The epsilon keeps ratios like 69.99999999999999 from flooring to 69.
		ratio := 100 * (1 - critical/serialSum)
		base = max(0, min(100, int(math.Floor(ratio+1e-9))))
	}
	return max(0, base-conflicts*penalty)
}
