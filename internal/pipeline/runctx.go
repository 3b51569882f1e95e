package pipeline

import "sync"

// runContext carries the state shared by every goroutine traversing one
// pipeline run: the run_id all Store calls are addressed to, and the
// catalog dedup cache synchronized across concurrently-executing composite
// branches (spec.md §4.6's synced_catalogs). Catalog Handler implementations
// are not expected to guard their own map argument against concurrent
// mutation, so catalogMu serializes every call into the Catalog Handler
// across the whole run, not just within one branch.
type runContext struct {
	runID          string
	catalogMu      sync.Mutex
	syncedCatalogs map[string]bool
}

func newRunContext(runID string) *runContext {
	return &runContext{runID: runID, syncedCatalogs: map[string]bool{}}
}
