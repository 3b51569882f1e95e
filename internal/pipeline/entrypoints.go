package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// ResolveBranch rebuilds the sub-graph addressed by internalBranchName by
// walking its dot-path segments in (step, branch) pairs against root,
// expanding each composite node it passes through. Internal names are
// %-substituted at construction time (Node.ExpandBranches), so the literal
// path segment already is the resolved branch or map iteration value —
// this needs no Run Log Store or parameter access, which is what makes
// execute_single_branch usable as a standalone CLI re-entry point (spec.md
// §6).
func ResolveBranch(root *graph.Graph, internalBranchName string) (*graph.Graph, error) {
	if internalBranchName == "" {
		return root, nil
	}
	parts := strings.Split(internalBranchName, ".")
	current := root
	for i := 0; i+1 < len(parts); i += 2 {
		stepName, branchSegment := parts[i], parts[i+1]
		n, err := current.GetNodeByName(stepName)
		if err != nil {
			return nil, err
		}
		if !n.IsComposite() {
			return nil, fmt.Errorf("%w: node %q is not a composite node", graph.ErrValidation, stepName)
		}
		branches, err := n.ExpandBranches([]string{branchSegment})
		if err != nil {
			return nil, err
		}
		branch, ok := branches[branchSegment]
		if !ok {
			return nil, fmt.Errorf("%w: branch %q not found under node %q", graph.ErrBranchNotFound, branchSegment, stepName)
		}
		current = branch
	}
	return current, nil
}

// ExecuteNode is the execute_single_node CLI re-entry point (spec.md §6):
// dispatch exactly one node of an already-created Run Log.
func (e *Executor) ExecuteNode(ctx context.Context, root *graph.Graph, runID, internalBranchName, nodeName string, mapVariable map[string]string) (runlog.RunStatus, error) {
	dag, err := ResolveBranch(root, internalBranchName)
	if err != nil {
		return "", err
	}
	n, err := dag.GetNodeByName(nodeName)
	if err != nil {
		return "", err
	}
	rc := newRunContext(runID)
	status, _, err := e.executeFromGraph(ctx, rc, dag, n, rerunState{}, mapVariableFrom(mapVariable))
	return status, err
}

// ExecuteBranch is the execute_single_branch CLI re-entry point (spec.md
// §6, §9's corrected name for the source's "execute_single_brach"): run an
// entire branch's graph to completion within an already-created Run Log.
// Its caller is the execute-single-branch CLI command; executeAsGraph does
// not use it and runs branches in this process, and no bundled Dispatcher
// spawns a process that calls it.
func (e *Executor) ExecuteBranch(ctx context.Context, root *graph.Graph, runID, internalBranchName string, mapVariable map[string]string) error {
	dag, err := ResolveBranch(root, internalBranchName)
	if err != nil {
		return err
	}
	rc := newRunContext(runID)
	return e.executeGraph(ctx, rc, dag, rerunState{}, mapVariableFrom(mapVariable))
}
