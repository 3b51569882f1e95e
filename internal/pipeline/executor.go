// Package pipeline implements the Executor traversal core (spec.md §4.3):
// graph traversal, composite expansion, the re-run gate, and catalog
// synchronization. Physical node dispatch is delegated to a Dispatcher
// (internal/executor/traversal, internal/executor/render); persistence is
// delegated to a runlog.Store, catalog.Handler, and secrets.Handler.
package pipeline

import (
	"time"

	"github.com/dagrunner/dagrunner/internal/backoff"
	"github.com/dagrunner/dagrunner/internal/catalog"
	"github.com/dagrunner/dagrunner/internal/integration"
	"github.com/dagrunner/dagrunner/internal/logger"
	"github.com/dagrunner/dagrunner/internal/runlog"
	"github.com/dagrunner/dagrunner/internal/secrets"
)

// defaultRetryInitialInterval is the delay before a leaf node's second
// attempt when the Executor is built with no explicit RetryPolicy.
const defaultRetryInitialInterval = 2 * time.Second

// Executor is the traversal driver (spec.md §2's "Executor" component). One
// Executor is built per pipeline document and reused across the pipeline,
// single-node, and single-branch entry points (spec.md §9's "global
// executor singleton" design note, re-architected here as an explicit
// value passed into every entry point instead of a module-level global).
type Executor struct {
	Store       runlog.Store
	Catalog     catalog.Handler
	Secrets     secrets.Handler
	Integration integration.Adapter
	Dispatcher  Dispatcher
	Logger      logger.Logger

	// RetryPolicy governs the inter-attempt delay in executeLeaf's retry
	// loop (spec.md §4.3 step 3c). Jittered so that a composite's parallel
	// branches retrying the same failure mode don't all re-dispatch in
	// lockstep.
	RetryPolicy backoff.RetryPolicy
}

// New builds an Executor. Integration defaults to integration.Noop{} when
// nil.
func New(store runlog.Store, cat catalog.Handler, sec secrets.Handler, integ integration.Adapter, dispatcher Dispatcher) *Executor {
	if integ == nil {
		integ = integration.Noop{}
	}
	return &Executor{
		Store:       store,
		Catalog:     cat,
		Secrets:     sec,
		Integration: integ,
		Dispatcher:  dispatcher,
		Logger:      logger.Default(),
		RetryPolicy: backoff.WithJitter(backoff.NewExponentialBackoffPolicy(defaultRetryInitialInterval), backoff.FullJitter),
	}
}
