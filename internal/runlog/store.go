package runlog

import (
	"context"
	"errors"
)

// Sentinel lookup errors, matching the engine's error-handling design.
var (
	ErrRunLogNotFound   = errors.New("run log not found")
	ErrStepLogNotFound  = errors.New("step log not found")
	ErrBranchLogNotFound = errors.New("branch log not found")
)

// Store is the narrow provider contract the pipeline package's Executor
// consumes (spec.md §6). Step and branch lookups are addressed by their
// full dot-path internal name; since odd path segments are step names and
// even ones are branch names (spec.md §3's depth invariant), a Store
// implementation can navigate straight to the owning container without a
// separate path parameter.
type Store interface {
	CreateRunLog(ctx context.Context, run *RunLog) error
	PutRunLog(ctx context.Context, run *RunLog) error
	GetRunLogByID(ctx context.Context, runID string, full bool) (*RunLog, error)

	CreateStepLog(ctx context.Context, runID string, step *StepLog) error
	AddStepLog(ctx context.Context, runID string, step *StepLog) error
	GetStepLog(ctx context.Context, runID string, internalName string) (*StepLog, error)

	CreateBranchLog(ctx context.Context, runID string, internalBranchName string, branch *BranchLog) error
	AddBranchLog(ctx context.Context, runID string, internalBranchName string, branch *BranchLog) error
	GetBranchLog(ctx context.Context, runID string, internalBranchName string) (*BranchLog, error)

	CreateAttemptLog(ctx context.Context, runID string, internalName string, attempt AttemptLog) error
	CreateCodeIdentity(ctx context.Context, runID string, internalName string, identity string) error

	GetParameters(ctx context.Context, runID string) (map[string]any, error)
	SetParameters(ctx context.Context, runID string, params map[string]any) error
}
