package pipeline

import "errors"

// Sentinel errors matching spec.md §7's error kinds not already defined by
// internal/graph or internal/runlog.
var (
	// ErrDagHashMismatch is returned when a resumed run's DAG content hash
	// differs from the previous run's, unless use_cached_force is set.
	ErrDagHashMismatch = errors.New("dag hash mismatch")

	// ErrInfiniteLoop guards the runtime "previous == current" case during
	// traversal; belt-and-braces alongside the graph validator's static
	// acyclicity proof.
	ErrInfiniteLoop = errors.New("infinite loop detected during traversal")

	// ErrExternalServiceFailure wraps a Run Log Store, Catalog, or Secrets
	// I/O error. The core surfaces it rather than retrying the stores.
	ErrExternalServiceFailure = errors.New("external service failure")

	// ErrTriggered is returned by a Dispatcher whose TriggerJob dispatched
	// the node to a system that reports its own outcome later (spec.md
	// §2's TRIGGERED status). No local dispatcher returns it today; it is
	// reserved for a future container/async Dispatcher.
	ErrTriggered = errors.New("node dispatched asynchronously")
)
