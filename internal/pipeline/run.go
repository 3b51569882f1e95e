package pipeline

import (
	"context"
	"fmt"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// RunOptions configures one execute_pipeline invocation (spec.md §6's
// "execute" CLI surface).
type RunOptions struct {
	RunID     string
	Tag       string
	Parameters map[string]any
	RunConfig  map[string]any

	UseCached      bool
	UseCachedForce bool
	PreviousRunID  string
}

// Run builds a fresh Run Log for root/spec and drives its traversal to
// completion (spec.md §4.3/§4.4). The returned error is non-nil only for
// infrastructural failures (store errors, a dag_hash mismatch, an infinite
// loop); a pipeline that runs to completion but fails returns a nil error
// with RunLog.Status == FAIL. Callers map that to a process exit code
// (spec.md §7's send_return_code).
func (e *Executor) Run(ctx context.Context, root *graph.Graph, spec *graph.GraphSpec, opts RunOptions) (*runlog.RunLog, error) {
	dagHash, err := graph.Hash(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	if err := e.Integration.Validate(ctx, "core", opts.Tag); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	run := runlog.NewRunLog(opts.RunID, dagHash)
	run.Tag = opts.Tag
	run.RunConfig = opts.RunConfig
	run.UseCached = opts.UseCached
	if opts.Parameters != nil {
		run.Parameters = opts.Parameters
	}

	rs := newRerunState(nil)

	if opts.UseCached && opts.PreviousRunID != "" {
		previous, err := e.Store.GetRunLogByID(ctx, opts.PreviousRunID, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}
		if previous.DagHash != dagHash && !opts.UseCachedForce {
			return nil, ErrDagHashMismatch
		}
		run.OriginalRunID = opts.PreviousRunID

		merged := make(map[string]any, len(previous.Parameters)+len(run.Parameters))
		for k, v := range previous.Parameters {
			merged[k] = v
		}
		for k, v := range run.Parameters {
			merged[k] = v
		}
		run.Parameters = merged

		if err := e.Catalog.SyncBetweenRuns(ctx, opts.PreviousRunID, opts.RunID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
		}

		rs = newRerunState(previous)
	}

	if err := e.Store.CreateRunLog(ctx, run); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}

	rc := newRunContext(opts.RunID)
	if err := e.executeGraph(ctx, rc, root, rs, NewMapVariable()); err != nil {
		return nil, err
	}

	final, err := e.Store.GetRunLogByID(ctx, opts.RunID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	return final, nil
}
