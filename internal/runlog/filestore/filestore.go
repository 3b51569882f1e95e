// Package filestore is the default runlog.Store: one JSON file per run,
// guarded by an advisory file lock for the duration of each
// read-modify-write cycle so concurrent step writers never interleave.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/dagrunner/dagrunner/internal/fileutil"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

var _ runlog.Store = (*Store)(nil)

const lockRetryInterval = 25 * time.Millisecond

// Store is a flock-guarded, JSON-file-backed runlog.Store.
type Store struct {
	dataRoot string
}

// New returns a Store rooted at dataRoot, creating the directory if needed.
func New(dataRoot string) (*Store, error) {
	if err := os.MkdirAll(dataRoot, 0o750); err != nil {
		return nil, fmt.Errorf("create run log data root %q: %w", dataRoot, err)
	}
	return &Store{dataRoot: dataRoot}, nil
}

func (s *Store) runLogPath(runID string) string {
	return filepath.Join(s.dataRoot, fileutil.SafeName(runID)+".json")
}

func (s *Store) lockPath(runID string) string {
	return s.runLogPath(runID) + ".lock"
}

func (s *Store) lock(ctx context.Context, runID string) (*flock.Flock, error) {
	fl := flock.New(s.lockPath(runID))
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("lock run log %q: %w", runID, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire run log lock for %q", runID)
	}
	return fl, nil
}

func (s *Store) readLocked(runID string) (*runlog.RunLog, error) {
	data, err := os.ReadFile(s.runLogPath(runID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, runlog.ErrRunLogNotFound
	}
	if err != nil {
		return nil, err
	}
	var run runlog.RunLog
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run log %q: %w", runID, err)
	}
	return &run, nil
}

func (s *Store) writeLocked(run *runlog.RunLog) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.runLogPath(run.RunID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return err
	}
	return os.Rename(tmp, s.runLogPath(run.RunID))
}

// mutate locks runID, reads its Run Log, lets fn mutate it in place, and
// writes the result back before releasing the lock.
func (s *Store) mutate(ctx context.Context, runID string, fn func(*runlog.RunLog) error) error {
	fl, err := s.lock(ctx, runID)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	run, err := s.readLocked(runID)
	if err != nil {
		return err
	}
	if err := fn(run); err != nil {
		return err
	}
	return s.writeLocked(run)
}

// navigateSteps walks parts in (stepName, branchName) pairs, descending into
// nested Branch Logs, creating containers along the way when create is set.
// It returns the Step Log map that should hold the final path segment and
// that segment's key within it.
func navigateSteps(steps map[string]*runlog.StepLog, parts []string, create bool) (map[string]*runlog.StepLog, string, error) {
	cur := steps
	for i := 0; i+1 < len(parts); i += 2 {
		stepName, branchName := parts[i], parts[i+1]
		step, ok := cur[stepName]
		if !ok {
			if !create {
				return nil, "", runlog.ErrStepLogNotFound
			}
			step = &runlog.StepLog{InternalName: stepName, Status: runlog.StatusProcessing}
			cur[stepName] = step
		}
		if step.Branches == nil {
			if !create {
				return nil, "", runlog.ErrBranchLogNotFound
			}
			step.Branches = map[string]*runlog.BranchLog{}
		}
		branch, ok := step.Branches[branchName]
		if !ok {
			if !create {
				return nil, "", runlog.ErrBranchLogNotFound
			}
			branch = runlog.NewBranchLog()
			step.Branches[branchName] = branch
		}
		cur = branch.Steps
	}
	return cur, parts[len(parts)-1], nil
}

// stepLogLocation resolves the Step Log map and leaf key owning internalName.
func stepLogLocation(run *runlog.RunLog, internalName string, create bool) (map[string]*runlog.StepLog, string, error) {
	if run.Steps == nil {
		if !create {
			return nil, "", runlog.ErrStepLogNotFound
		}
		run.Steps = map[string]*runlog.StepLog{}
	}
	parts := strings.Split(internalName, ".")
	return navigateSteps(run.Steps, parts, create)
}

// branchLogLocation resolves the Step Log owning internalBranchName's final
// branch-name segment, and that segment's key within the step's Branches map.
func branchLogLocation(run *runlog.RunLog, internalBranchName string, create bool) (*runlog.StepLog, string, error) {
	parts := strings.Split(internalBranchName, ".")
	if len(parts) < 1 {
		return nil, "", fmt.Errorf("invalid branch internal name %q", internalBranchName)
	}
	cur, leaf, err := navigateSteps(requireSteps(run, create), parts[:len(parts)-1], create)
	if err != nil {
		return nil, "", err
	}
	step, ok := cur[leaf]
	if !ok {
		if !create {
			return nil, "", runlog.ErrStepLogNotFound
		}
		step = &runlog.StepLog{InternalName: leaf, Status: runlog.StatusProcessing}
		cur[leaf] = step
	}
	if step.Branches == nil {
		if !create {
			return nil, "", runlog.ErrBranchLogNotFound
		}
		step.Branches = map[string]*runlog.BranchLog{}
	}
	return step, parts[len(parts)-1], nil
}

func requireSteps(run *runlog.RunLog, create bool) map[string]*runlog.StepLog {
	if run.Steps == nil && create {
		run.Steps = map[string]*runlog.StepLog{}
	}
	return run.Steps
}

func (s *Store) CreateRunLog(ctx context.Context, run *runlog.RunLog) error {
	fl, err := s.lock(ctx, run.RunID)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	if _, err := os.Stat(s.runLogPath(run.RunID)); err == nil {
		return fmt.Errorf("run log %q already exists", run.RunID)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.writeLocked(run)
}

func (s *Store) PutRunLog(ctx context.Context, run *runlog.RunLog) error {
	return s.mutate(ctx, run.RunID, func(existing *runlog.RunLog) error {
		*existing = *run
		return nil
	})
}

func (s *Store) GetRunLogByID(ctx context.Context, runID string, full bool) (*runlog.RunLog, error) {
	fl, err := s.lock(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	run, err := s.readLocked(runID)
	if err != nil {
		return nil, err
	}
	if !full {
		summary := *run
		summary.Steps = nil
		return &summary, nil
	}
	return run, nil
}

func (s *Store) CreateStepLog(ctx context.Context, runID string, step *runlog.StepLog) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		steps, leaf, err := stepLogLocation(run, step.InternalName, true)
		if err != nil {
			return err
		}
		if _, exists := steps[leaf]; exists {
			return fmt.Errorf("step log %q already exists", step.InternalName)
		}
		steps[leaf] = step
		return nil
	})
}

func (s *Store) AddStepLog(ctx context.Context, runID string, step *runlog.StepLog) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		steps, leaf, err := stepLogLocation(run, step.InternalName, true)
		if err != nil {
			return err
		}
		steps[leaf] = step
		return nil
	})
}

func (s *Store) GetStepLog(ctx context.Context, runID string, internalName string) (*runlog.StepLog, error) {
	fl, err := s.lock(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	run, err := s.readLocked(runID)
	if err != nil {
		return nil, err
	}
	steps, leaf, err := stepLogLocation(run, internalName, false)
	if err != nil {
		return nil, err
	}
	step, ok := steps[leaf]
	if !ok {
		return nil, runlog.ErrStepLogNotFound
	}
	return step, nil
}

func (s *Store) CreateBranchLog(ctx context.Context, runID string, internalBranchName string, branch *runlog.BranchLog) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		step, leaf, err := branchLogLocation(run, internalBranchName, true)
		if err != nil {
			return err
		}
		if _, exists := step.Branches[leaf]; exists {
			return fmt.Errorf("branch log %q already exists", internalBranchName)
		}
		step.Branches[leaf] = branch
		return nil
	})
}

func (s *Store) AddBranchLog(ctx context.Context, runID string, internalBranchName string, branch *runlog.BranchLog) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		step, leaf, err := branchLogLocation(run, internalBranchName, true)
		if err != nil {
			return err
		}
		step.Branches[leaf] = branch
		return nil
	})
}

func (s *Store) GetBranchLog(ctx context.Context, runID string, internalBranchName string) (*runlog.BranchLog, error) {
	fl, err := s.lock(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	run, err := s.readLocked(runID)
	if err != nil {
		return nil, err
	}
	step, leaf, err := branchLogLocation(run, internalBranchName, false)
	if err != nil {
		return nil, err
	}
	branch, ok := step.Branches[leaf]
	if !ok {
		return nil, runlog.ErrBranchLogNotFound
	}
	return branch, nil
}

func (s *Store) CreateAttemptLog(ctx context.Context, runID string, internalName string, attempt runlog.AttemptLog) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		steps, leaf, err := stepLogLocation(run, internalName, false)
		if err != nil {
			return err
		}
		step, ok := steps[leaf]
		if !ok {
			return runlog.ErrStepLogNotFound
		}
		step.Attempts = append(step.Attempts, attempt)
		return nil
	})
}

func (s *Store) CreateCodeIdentity(ctx context.Context, runID string, internalName string, identity string) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		steps, leaf, err := stepLogLocation(run, internalName, false)
		if err != nil {
			return err
		}
		step, ok := steps[leaf]
		if !ok {
			return runlog.ErrStepLogNotFound
		}
		step.CodeIdentities = append(step.CodeIdentities, identity)
		return nil
	})
}

func (s *Store) GetParameters(ctx context.Context, runID string) (map[string]any, error) {
	fl, err := s.lock(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	run, err := s.readLocked(runID)
	if err != nil {
		return nil, err
	}
	return run.Parameters, nil
}

func (s *Store) SetParameters(ctx context.Context, runID string, params map[string]any) error {
	return s.mutate(ctx, runID, func(run *runlog.RunLog) error {
		run.Parameters = params
		return nil
	})
}
