package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dagrunner/dagrunner/internal/backoff"
	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// executeNode runs n's own execution logic once its Step Log exists and
// the re-run gate has cleared it (spec.md §4.2/§4.3). Terminal nodes flip
// their enclosing branch/run status; everything else goes through the
// retry loop (mocked steps were already handled by the caller and never
// reach here).
func (e *Executor) executeNode(ctx context.Context, rc *runContext, n *graph.Node, mv MapVariable) (runlog.RunStatus, error) {
	switch n.Type {
	case graph.NodeTypeSuccess:
		return e.executeTerminal(ctx, rc, n, runlog.StatusSuccess)
	case graph.NodeTypeFail:
		return e.executeTerminal(ctx, rc, n, runlog.StatusFail)
	default:
		return e.executeLeaf(ctx, rc, n, mv)
	}
}

// executeTerminal implements spec.md §4.2's success/fail contract: the
// node's own Attempt Log is always SUCCESS (it executed correctly), even
// for a fail node, whose job is precisely to report failure upward.
func (e *Executor) executeTerminal(ctx context.Context, rc *runContext, n *graph.Node, status runlog.RunStatus) (runlog.RunStatus, error) {
	now := time.Now()
	attempt := runlog.AttemptLog{
		AttemptNumber: 1,
		Status:        runlog.AttemptSuccess,
		StartTime:     now,
		EndTime:       now,
	}
	if err := e.Store.CreateAttemptLog(ctx, rc.runID, n.InternalName, attempt); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	step, err := e.Store.GetStepLog(ctx, rc.runID, n.InternalName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	step.Status = runlog.StatusSuccess
	if err := e.Store.AddStepLog(ctx, rc.runID, step); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	if err := e.setEnclosingStatus(ctx, rc, n.InternalBranchName, status); err != nil {
		return "", err
	}
	return status, nil
}

// executeLeaf is the task/as-is retry loop (spec.md §4.3's execute_node).
func (e *Executor) executeLeaf(ctx context.Context, rc *runContext, n *graph.Node, mv MapVariable) (runlog.RunStatus, error) {
	if err := e.Integration.ConfigureForExecution(ctx, "core", string(n.Type)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	params, err := e.Store.GetParameters(ctx, rc.runID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	taskParams := mergeMapVariable(params, mv)
	if err := e.injectSecrets(ctx, n, taskParams); err != nil {
		return "", err
	}

	step, err := e.Store.GetStepLog(ctx, rc.runID, n.InternalName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	if err := e.syncCatalog(ctx, rc, n, step, runlog.CatalogStageGet); err != nil {
		return "", err
	}
	if err := e.Store.AddStepLog(ctx, rc.runID, step); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	maxAttempts := n.MaxAttempts()
	finalStatus := runlog.StatusFail
	var output map[string]any
	var retrier backoff.Retrier
	if e.RetryPolicy != nil {
		retrier = backoff.NewRetrier(e.RetryPolicy)
	}

	for attemptNum := 1; attemptNum <= maxAttempts; attemptNum++ {
		start := time.Now()
		outputParams, message, execErr := e.Dispatcher.TriggerJob(ctx, n, mv.Values(), taskParams)
		end := time.Now()

		if errors.Is(execErr, ErrTriggered) {
			step, err := e.Store.GetStepLog(ctx, rc.runID, n.InternalName)
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
			}
			step.Status = runlog.StatusTriggered
			if err := e.Store.AddStepLog(ctx, rc.runID, step); err != nil {
				return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
			}
			return runlog.StatusTriggered, nil
		}

		attempt := runlog.AttemptLog{
			AttemptNumber: attemptNum,
			StartTime:     start,
			EndTime:       end,
			Duration:      end.Sub(start),
			Message:       message,
		}
		if execErr == nil {
			attempt.Status = runlog.AttemptSuccess
		} else {
			attempt.Status = runlog.AttemptFail
			if message == "" {
				attempt.Message = execErr.Error()
			}
		}
		if err := e.Store.CreateAttemptLog(ctx, rc.runID, n.InternalName, attempt); err != nil {
			return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}

		if execErr == nil {
			finalStatus = runlog.StatusSuccess
			output = outputParams
			break
		}
		e.Logger.Warnf("node %q attempt %d/%d failed: %v", n.InternalName, attemptNum, maxAttempts, execErr)

		if attemptNum < maxAttempts && retrier != nil {
			if waitErr := retrier.Next(ctx, execErr); waitErr != nil && !errors.Is(waitErr, backoff.ErrRetriesExhausted) {
				return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, waitErr)
			}
		}
	}

	step, err = e.Store.GetStepLog(ctx, rc.runID, n.InternalName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	step.Status = finalStatus
	if finalStatus == runlog.StatusSuccess && len(output) > 0 {
		if err := e.persistParameters(ctx, rc.runID, output); err != nil {
			return "", err
		}
		step.UserDefinedMetrics = output
	}
	if err := e.syncCatalog(ctx, rc, n, step, runlog.CatalogStagePut); err != nil {
		return "", err
	}
	if err := e.Store.AddStepLog(ctx, rc.runID, step); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	return finalStatus, nil
}

// injectSecrets resolves the secret names listed under the node's
// mode_config["secrets"] key (a pipeline-document convention: the core's
// one interpretation of spec.md §6's otherwise-unspecified Secrets Handler
// call site) and merges them into taskParams by name, so a task command
// never sees secret material beyond what it explicitly lists.
func (e *Executor) injectSecrets(ctx context.Context, n *graph.Node, taskParams map[string]any) error {
	if e.Secrets == nil {
		return nil
	}
	raw, ok := n.ModeConfig()["secrets"]
	if !ok {
		return nil
	}
	names, ok := raw.([]any)
	if !ok {
		return nil
	}
	for _, nameAny := range names {
		name, ok := nameAny.(string)
		if !ok {
			continue
		}
		value, err := e.Secrets.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
		taskParams[name] = value
	}
	return nil
}

// mergeMapVariable overlays mv's per-iteration bindings over a copy of
// params without mutating the Run Log's own parameter map (spec.md §5:
// "parameters are exchanged... the core treats this as a write-once-per-task
// channel").
func mergeMapVariable(params map[string]any, mv MapVariable) map[string]any {
	merged := make(map[string]any, len(params)+len(mv.Values()))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range mv.Values() {
		merged[k] = v
	}
	return merged
}

// persistParameters merges a task's returned mapping into the Run Log's
// parameters (spec.md §4.3 step 3b).
func (e *Executor) persistParameters(ctx context.Context, runID string, output map[string]any) error {
	current, err := e.Store.GetParameters(ctx, runID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	merged := make(map[string]any, len(current)+len(output))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range output {
		merged[k] = v
	}
	if err := e.Store.SetParameters(ctx, runID, merged); err != nil {
		return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	return nil
}

// syncCatalog implements spec.md §4.6 for one stage (get or put).
func (e *Executor) syncCatalog(ctx context.Context, rc *runContext, n *graph.Node, step *runlog.StepLog, stage runlog.CatalogStage) error {
	settings := n.CatalogSettings()
	if settings == nil {
		return nil
	}
	var patterns []string
	if stage == runlog.CatalogStageGet {
		patterns = settings.Get
	} else {
		patterns = settings.Put
	}
	if len(patterns) == 0 {
		return nil
	}

	computeDataFolder := settings.ComputeDataFolder
	if computeDataFolder == "" {
		computeDataFolder = e.Catalog.ComputeDataFolder()
	}

	rc.catalogMu.Lock()
	defer rc.catalogMu.Unlock()

	for _, pattern := range patterns {
		var items []runlog.CatalogItem
		var err error
		if stage == runlog.CatalogStageGet {
			items, err = e.Catalog.Get(ctx, pattern, rc.runID, computeDataFolder, rc.syncedCatalogs)
		} else {
			items, err = e.Catalog.Put(ctx, pattern, rc.runID, computeDataFolder, rc.syncedCatalogs)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
		step.DataCatalogs = append(step.DataCatalogs, items...)
	}
	return nil
}

// setEnclosingStatus flips the status of the Run Log (internalBranchName
// empty) or the owning Branch Log to status. Only a success or fail node
// calls this, and exactly one runs per branch's control-flow path, so the
// read-modify-write here never races a sibling write to the same status
// field (spec.md §5: composites never share a branch across workers).
func (e *Executor) setEnclosingStatus(ctx context.Context, rc *runContext, internalBranchName string, status runlog.RunStatus) error {
	if internalBranchName == "" {
		run, err := e.Store.GetRunLogByID(ctx, rc.runID, true)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
		run.Status = status
		if err := e.Store.PutRunLog(ctx, run); err != nil {
			return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
		return nil
	}

	branch, err := e.Store.GetBranchLog(ctx, rc.runID, internalBranchName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	branch.Status = status
	if err := e.Store.AddBranchLog(ctx, rc.runID, internalBranchName, branch); err != nil {
		return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	return nil
}
