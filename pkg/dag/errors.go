package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *[ValidationError].
	ErrValidation = errors.New("invalid task graph")

	// ErrCycle is matched by every *[CycleError].
	ErrCycle = errors.New("dependency cycle")
)

// Validation failure reasons reported by [Build].
const (
	ReasonEmptyID         = "empty task id"
	ReasonDuplicateTask   = "duplicate task"
	ReasonInvalidDuration = "invalid duration"
	ReasonUnknownTask     = "unknown task reference"
	ReasonSelfDependency  = "self dependency"
)

// ValidationError reports malformed input to [Build].
type ValidationError struct {
	Reason string      // One of the Reason* constants
	TaskID string      // Offending task, if any
	Edge   *Dependency // Offending dependency, if any
}

func (e *ValidationError) Error() string {
	switch {
	case e.Edge != nil:
		return fmt.Sprintf("%s: %s -> %s", e.Reason, e.Edge.From, e.Edge.To)
	case e.TaskID != "":
		return fmt.Sprintf("%s: %s", e.Reason, e.TaskID)
	}
	return e.Reason
}

// Is reports whether target is [ErrValidation].
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// CycleError reports that the dependency set is not acyclic.
//
// Unresolved lists every task whose in-degree never reached zero during the
// topological sort. Tasks narrows that down to the tasks that actually lie
// on a cycle, dropping tasks that are merely blocked downstream of one.
// Both slices are sorted ascending.
type CycleError struct {
	Tasks      []string
	Unresolved []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among %d tasks: %s", len(e.Tasks), strings.Join(e.Tasks, ", "))
}

// Is reports whether target is [ErrCycle].
func (e *CycleError) Is(target error) bool { return target == ErrCycle }
