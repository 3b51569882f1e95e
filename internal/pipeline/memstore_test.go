package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/dagrunner/dagrunner/internal/catalog"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// memStore is an in-memory runlog.Store for tests, mirroring
// internal/runlog/filestore's dot-path navigation without any file I/O or
// locking (tests drive one run at a time per Executor.Run call, so a plain
// mutex suffices).
type memStore struct {
	mu   sync.Mutex
	runs map[string]*runlog.RunLog
}

func newMemStore() *memStore {
	return &memStore{runs: map[string]*runlog.RunLog{}}
}

func (s *memStore) CreateRunLog(ctx context.Context, run *runlog.RunLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.RunID] = run
	return nil
}

func (s *memStore) PutRunLog(ctx context.Context, run *runlog.RunLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.RunID] = run
	return nil
}

func (s *memStore) GetRunLogByID(ctx context.Context, runID string, full bool) (*runlog.RunLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, runlog.ErrRunLogNotFound
	}
	if !full {
		summary := *run
		summary.Steps = nil
		return &summary, nil
	}
	return run, nil
}

func (s *memStore) navigate(run *runlog.RunLog, internalName string, create bool) (map[string]*runlog.StepLog, string, error) {
	if run.Steps == nil {
		if !create {
			return nil, "", runlog.ErrStepLogNotFound
		}
		run.Steps = map[string]*runlog.StepLog{}
	}
	parts := strings.Split(internalName, ".")
	cur := run.Steps
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

func (s *memStore) CreateStepLog(ctx context.Context, runID string, step *runlog.StepLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[runID]
	steps, leaf, err := s.navigate(run, step.InternalName, true)
	if err != nil {
		return err
	}
	steps[leaf] = step
	return nil
}

func (s *memStore) AddStepLog(ctx context.Context, runID string, step *runlog.StepLog) error {
	return s.CreateStepLog(ctx, runID, step)
}

func (s *memStore) GetStepLog(ctx context.Context, runID string, internalName string) (*runlog.StepLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[runID]
	steps, leaf, err := s.navigate(run, internalName, false)
	if err != nil {
		return nil, err
	}
	step, ok := steps[leaf]
	if !ok {
		return nil, runlog.ErrStepLogNotFound
	}
	return step, nil
}

func (s *memStore) branchLocation(run *runlog.RunLog, internalBranchName string, create bool) (*runlog.StepLog, string, error) {
	parts := strings.Split(internalBranchName, ".")
	steps, leaf, err := s.navigate(run, strings.Join(parts[:len(parts)-1], "."), create)
	if err != nil {
		return nil, "", err
	}
	step, ok := steps[leaf]
	if !ok {
		if !create {
			return nil, "", runlog.ErrStepLogNotFound
		}
		step = &runlog.StepLog{InternalName: leaf, Status: runlog.StatusProcessing}
		steps[leaf] = step
	}
	if step.Branches == nil {
		if !create {
			return nil, "", runlog.ErrBranchLogNotFound
		}
		step.Branches = map[string]*runlog.BranchLog{}
	}
	return step, parts[len(parts)-1], nil
}

func (s *memStore) CreateBranchLog(ctx context.Context, runID string, internalBranchName string, branch *runlog.BranchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[runID]
	step, leaf, err := s.branchLocation(run, internalBranchName, true)
	if err != nil {
		return err
	}
	step.Branches[leaf] = branch
	return nil
}

func (s *memStore) AddBranchLog(ctx context.Context, runID string, internalBranchName string, branch *runlog.BranchLog) error {
	return s.CreateBranchLog(ctx, runID, internalBranchName, branch)
}

func (s *memStore) GetBranchLog(ctx context.Context, runID string, internalBranchName string) (*runlog.BranchLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[runID]
	step, leaf, err := s.branchLocation(run, internalBranchName, false)
	if err != nil {
		return nil, err
	}
	branch, ok := step.Branches[leaf]
	if !ok {
		return nil, runlog.ErrBranchLogNotFound
	}
	return branch, nil
}

func (s *memStore) CreateAttemptLog(ctx context.Context, runID string, internalName string, attempt runlog.AttemptLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[runID]
	steps, leaf, err := s.navigate(run, internalName, false)
	if err != nil {
		return err
	}
	steps[leaf].Attempts = append(steps[leaf].Attempts, attempt)
	return nil
}

func (s *memStore) CreateCodeIdentity(ctx context.Context, runID string, internalName string, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[runID]
	steps, leaf, err := s.navigate(run, internalName, false)
	if err != nil {
		return err
	}
	steps[leaf].CodeIdentities = append(steps[leaf].CodeIdentities, identity)
	return nil
}

func (s *memStore) GetParameters(ctx context.Context, runID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[runID].Parameters, nil
}

func (s *memStore) SetParameters(ctx context.Context, runID string, params map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID].Parameters = params
	return nil
}

var _ runlog.Store = (*memStore)(nil)

// noopCatalog is a catalog.Handler that never matches anything, for tests
// whose nodes carry no catalog settings.
type noopCatalog struct{}

func (noopCatalog) Get(ctx context.Context, pattern, runID, computeDataFolder string, synced map[string]bool) ([]runlog.CatalogItem, error) {
	return nil, nil
}

func (noopCatalog) Put(ctx context.Context, pattern, runID, computeDataFolder string, synced map[string]bool) ([]runlog.CatalogItem, error) {
	return nil, nil
}

func (noopCatalog) SyncBetweenRuns(ctx context.Context, previousRunID, runID string) error { return nil }

func (noopCatalog) ComputeDataFolder() string { return "" }

var _ catalog.Handler = noopCatalog{}
