package pipeline

import (
	"context"

	"github.com/dagrunner/dagrunner/internal/graph"
)

// Dispatcher is the Executor-variant contract (spec.md §4.3: "Executor —
// the traversal driver. Variants differ only in how a single node is
// physically dispatched"). internal/executor/traversal and
// internal/executor/render provide concrete Dispatchers; the traversal
// core in this package owns everything variant-independent (retry
// bookkeeping, composite expansion, the re-run gate, catalog sync).
type Dispatcher interface {
	// IsParallelExecution reports whether composite branch fan-out should
	// run branches concurrently (spec.md §5: "the choice is per-executor;
	// it never mixes within one composite").
	IsParallelExecution() bool

	// TriggerJob performs one execution attempt of a task or as-is node
	// and returns any parameters the task produced for persistence
	// (spec.md §4.2 task/python's mapping return value).
	TriggerJob(ctx context.Context, n *graph.Node, mapVariable map[string]string, params map[string]any) (outputParams map[string]any, message string, err error)
}
