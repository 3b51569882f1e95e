package pipeline

import (
	"strings"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// rerunState is an immutable, per-traversal-path value carrying the
// previous run being reused, if any (spec.md §4.4: "at most one continuous
// prefix of the previous run is reused; once divergence occurs it is
// permanent for the remainder of the run"). It is reassigned, never
// mutated in place, so concurrently-executing composite branches each
// carry an independent copy without sharing a pointer that would race.
type rerunState struct {
	previous *runlog.RunLog
}

// newRerunState starts a traversal path reusing previous, or a fresh one
// if previous is nil.
func newRerunState(previous *runlog.RunLog) rerunState {
	return rerunState{previous: previous}
}

// isEligibleForRerun implements spec.md §4.4's per-node gate. A false
// result means n should be skipped and mocked from the returned Step Log
// (nil if no previous run was ever attached).
func (rs rerunState) isEligibleForRerun(n *graph.Node) (eligible bool, next rerunState, mocked *runlog.StepLog) {
	if rs.previous == nil {
		return true, rs, nil
	}
	step, ok := findStepLog(rs.previous, n.InternalName)
	if !ok {
		// Step never ran in the previous attempt: treat as fresh, and
		// detach so every sibling further down this path reruns too.
		return true, rerunState{}, nil
	}
	if step.Status == runlog.StatusSuccess {
		return false, rs, step
	}
	return true, rerunState{}, nil
}

// findStepLog walks internalName's dot-path segments in (step, branch)
// pairs through prev's Steps/Branches tree — the in-memory counterpart of
// internal/runlog/filestore's navigateSteps, operating on an already-loaded
// RunLog instead of a Store.
func findStepLog(prev *runlog.RunLog, internalName string) (*runlog.StepLog, bool) {
	parts := strings.Split(internalName, ".")
	steps := prev.Steps
	for i := 0; i+1 < len(parts); i += 2 {
		step, ok := steps[parts[i]]
		if !ok {
			return nil, false
		}
		branch, ok := step.Branches[parts[i+1]]
		if !ok {
			return nil, false
		}
		steps = branch.Steps
	}
	if steps == nil {
		return nil, false
	}
	step, ok := steps[parts[len(parts)-1]]
	return step, ok
}
