package pipeline

import (
	"context"
	"fmt"

	"github.com/dagrunner/dagrunner/internal/build"
	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// executeGraph is the depth-first traversal of a single graph (spec.md
// §4.3): follow current's next/on_failure edge until a terminal node, a
// TRIGGERED status, or the graph's own structure ends the walk.
func (e *Executor) executeGraph(ctx context.Context, rc *runContext, dag *graph.Graph, rs rerunState, mv MapVariable) error {
	if err := e.Integration.ConfigureForTraversal(ctx, "core", dag.InternalBranchName); err != nil {
		return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	current := dag.StartAt
	previous := ""

	for {
		if previous == current {
			return ErrInfiniteLoop
		}
		n, err := dag.GetNodeByName(current)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}

		status, nextRS, err := e.executeFromGraph(ctx, rc, dag, n, rs, mv)
		if err != nil {
			return err
		}
		rs = nextRS

		if status == runlog.StatusTriggered || n.IsTerminal() {
			return nil
		}

		previous = current
		current = getStatusAndNextNodeName(dag, n, status)
	}
}

// getStatusAndNextNodeName implements spec.md §4.3's routing rule: a FAIL
// status routes to the node's own on_failure target, falling back to the
// graph's fail node; anything else follows next.
func getStatusAndNextNodeName(dag *graph.Graph, n *graph.Node, status runlog.RunStatus) string {
	if status != runlog.StatusFail {
		return n.NextNodeName()
	}
	if n.OnFailureNodeName() != "" {
		return n.OnFailureNodeName()
	}
	return dag.GetFailNode().Name
}

// executeFromGraph dispatches one node: create its Step Log, apply the
// re-run gate, and hand off to the terminal, composite, or leaf execution
// path (spec.md §4.3's execute_from_graph).
func (e *Executor) executeFromGraph(ctx context.Context, rc *runContext, dag *graph.Graph, n *graph.Node, rs rerunState, mv MapVariable) (runlog.RunStatus, rerunState, error) {
	step := &runlog.StepLog{
		InternalName: n.InternalName,
		StepType:     string(n.Type),
		Status:       runlog.StatusProcessing,
	}
	if err := e.Store.CreateStepLog(ctx, rc.runID, step); err != nil {
		return "", rs, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	if build.Version != "" {
		if err := e.Store.CreateCodeIdentity(ctx, rc.runID, n.InternalName, build.Version); err != nil {
			return "", rs, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
	}

	if n.IsTerminal() {
		status, err := e.executeNode(ctx, rc, n, mv)
		return status, rs, err
	}

	eligible, nextRS, mocked := rs.isEligibleForRerun(n)
	if !eligible {
		status, err := e.applyMock(ctx, rc, n, mocked)
		return status, nextRS, err
	}

	if n.IsComposite() {
		return e.executeAsGraph(ctx, rc, n, nextRS, mv)
	}

	status, err := e.executeNode(ctx, rc, n, mv)
	return status, nextRS, err
}

// applyMock materializes the re-run gate's "skip" outcome: a mocked SUCCESS
// Step Log carrying forward the previous run's recorded metrics and
// catalog items, but no attempts (spec.md §4.4, §8's invariant).
func (e *Executor) applyMock(ctx context.Context, rc *runContext, n *graph.Node, previous *runlog.StepLog) (runlog.RunStatus, error) {
	step, err := e.Store.GetStepLog(ctx, rc.runID, n.InternalName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	step.Mock = true
	step.Status = runlog.StatusSuccess
	if previous != nil {
		step.Message = previous.Message
		step.UserDefinedMetrics = previous.UserDefinedMetrics
		step.CodeIdentities = previous.CodeIdentities
		step.DataCatalogs = previous.DataCatalogs
	}
	if err := e.Store.AddStepLog(ctx, rc.runID, step); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	return runlog.StatusSuccess, nil
}
