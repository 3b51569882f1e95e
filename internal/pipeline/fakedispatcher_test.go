package pipeline

import (
	"context"
	"sync"

	"github.com/dagrunner/dagrunner/internal/graph"
)

// scriptedResult is one canned TriggerJob outcome.
type scriptedResult struct {
	output  map[string]any
	message string
	err     error
}

// fakeDispatcher is a scripted Dispatcher for tests: each node name is
// assigned an ordered queue of outcomes, consumed one per call (to drive
// retry-then-succeed scenarios); nodes without a script always succeed.
type fakeDispatcher struct {
	mu       sync.Mutex
	parallel bool
	scripts  map[string][]scriptedResult
	calls    map[string]int
}

func newFakeDispatcher(parallel bool) *fakeDispatcher {
	return &fakeDispatcher{parallel: parallel, scripts: map[string][]scriptedResult{}, calls: map[string]int{}}
}

func (d *fakeDispatcher) script(name string, results ...scriptedResult) {
	d.scripts[name] = results
}

func (d *fakeDispatcher) IsParallelExecution() bool { return d.parallel }

func (d *fakeDispatcher) TriggerJob(ctx context.Context, n *graph.Node, mapVariable map[string]string, params map[string]any) (map[string]any, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := d.scripts[n.Name]
	idx := d.calls[n.Name]
	d.calls[n.Name]++
	if idx >= len(results) {
		return nil, "", nil
	}
	r := results[idx]
	return r.output, r.message, r.err
}

func (d *fakeDispatcher) callCount(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[name]
}
