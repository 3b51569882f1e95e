package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// executeAsGraph implements spec.md §4.5's composite-expansion protocol
// shared by parallel, map, and dag nodes.
func (e *Executor) executeAsGraph(ctx context.Context, rc *runContext, n *graph.Node, rs rerunState, mv MapVariable) (runlog.RunStatus, rerunState, error) {
	iterationValues, err := e.resolveIterationValues(ctx, rc, n)
	if err != nil {
		return "", rs, err
	}

	branches, err := n.ExpandBranches(iterationValues)
	if err != nil {
		return "", rs, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	for _, branch := range branches {
		if err := e.Store.CreateBranchLog(ctx, rc.runID, branch.InternalBranchName, runlog.NewBranchLog()); err != nil {
			return "", rs, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
	}

	branchMapVariable := func(iterValue string) MapVariable {
		if n.Type != graph.NodeTypeMap {
			return mv
		}
		return mv.With(n.Spec.IterateAs, iterValue)
	}

	if e.Dispatcher.IsParallelExecution() {
		g, gctx := errgroup.WithContext(ctx)
		for iterValue, branch := range branches {
			branch, iterValue := branch, iterValue
			g.Go(func() error {
				// Branch failures never interrupt sibling branches
				// in-flight (spec.md §5): log, don't propagate.
				if err := e.executeGraph(gctx, rc, branch, rs, branchMapVariable(iterValue)); err != nil {
					e.Logger.Errorf("branch %q failed: %v", branch.InternalBranchName, err)
				}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for iterValue, branch := range branches {
			if err := e.executeGraph(ctx, rc, branch, rs, branchMapVariable(iterValue)); err != nil {
				e.Logger.Errorf("branch %q failed: %v", branch.InternalBranchName, err)
			}
		}
	}

	status, err := e.reconcileComposite(ctx, rc, n, branches)
	return status, rs, err
}

// resolveIterationValues reads a map node's iterate_on list parameter.
// Values are coerced to their string representation: Graph's internal-name
// scheme requires a printable dot-path segment per branch, and MapVariable
// binds the same string back to the task as the iterate_as parameter, a
// deliberate simplification of the source's untyped per-iteration value.
func (e *Executor) resolveIterationValues(ctx context.Context, rc *runContext, n *graph.Node) ([]string, error) {
	if n.Type != graph.NodeTypeMap {
		return nil, nil
	}
	params, err := e.Store.GetParameters(ctx, rc.runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	raw, ok := params[n.Spec.IterateOn]
	if !ok {
		return nil, fmt.Errorf("%w: map node %q's iterate_on parameter %q is not set", graph.ErrValidation, n.Name, n.Spec.IterateOn)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: map node %q's iterate_on parameter %q is not a list", graph.ErrValidation, n.Name, n.Spec.IterateOn)
	}
	values := make([]string, len(list))
	for i, v := range list {
		values[i] = fmt.Sprint(v)
	}
	return values, nil
}

// reconcileComposite implements spec.md §4.5 step 3/4: read back every
// child Branch Log and fold their statuses into the parent step's.
func (e *Executor) reconcileComposite(ctx context.Context, rc *runContext, n *graph.Node, branches map[string]*graph.Graph) (runlog.RunStatus, error) {
	waiting, ok := false, true
	for _, branch := range branches {
		bl, err := e.Store.GetBranchLog(ctx, rc.runID, branch.InternalBranchName)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
		switch bl.Status {
		case runlog.StatusProcessing:
			waiting = true
		case runlog.StatusFail:
			ok = false
		}
	}

	var status runlog.RunStatus
	switch {
	case ok && !waiting:
		status = runlog.StatusSuccess
	case !ok:
		status = runlog.StatusFail
	default:
		status = runlog.StatusProcessing
	}

	step, err := e.Store.GetStepLog(ctx, rc.runID, n.InternalName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	step.Status = status
	if err := e.Store.AddStepLog(ctx, rc.runID, step); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	return status, nil
}
