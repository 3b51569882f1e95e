// Package catalog defines the Catalog Handler contract (spec.md §6): the
// collaborator the pipeline Executor calls into during catalog
// synchronization (spec.md §4.6) to move named artifacts between a per-run
// catalog and a node's local compute data folder.
package catalog

import (
	"context"
	"errors"

	"github.com/dagrunner/dagrunner/internal/runlog"
)

// ErrHandler wraps a Catalog Handler I/O failure, surfaced to the caller as
// an external-service failure (spec.md §7) rather than retried by the core.
var ErrHandler = errors.New("catalog handler error")

// Handler moves named artifacts between a run's catalog and a compute data
// folder. name is a glob pattern (spec.md §4.6's "name pattern"); a single
// call may match, and return catalog items for, more than one file.
//
// syncedCatalogs is a per-run dedup cache keyed by resolved artifact name;
// implementations must skip (and not re-append to) names already present so
// a pattern repeated across sibling steps is only synced once.
type Handler interface {
	Get(ctx context.Context, pattern, runID, computeDataFolder string, syncedCatalogs map[string]bool) ([]runlog.CatalogItem, error)
	Put(ctx context.Context, pattern, runID, computeDataFolder string, syncedCatalogs map[string]bool) ([]runlog.CatalogItem, error)

	// SyncBetweenRuns mirrors a previous run's catalog contents into a new
	// run_id, used when resuming (spec.md §4.4's "the Catalog Handler
	// mirrors data catalogs between the two run_ids").
	SyncBetweenRuns(ctx context.Context, previousRunID, runID string) error

	// ComputeDataFolder is the handler's default compute data folder,
	// overridden per-node by the node's own catalog.compute_data_folder
	// (spec.md §4.6: "node's catalog override > handler default").
	ComputeDataFolder() string
}
