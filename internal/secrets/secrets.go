// Package secrets defines the Secrets Handler contract (spec.md §6): a
// single-method lookup the pipeline Executor consults before running a
// node, so task commands never see secret material until the point of use.
package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a Handler has no value for the requested name.
var ErrNotFound = errors.New("secret not found")

// Handler resolves a secret by name.
type Handler interface {
	Get(ctx context.Context, name string) (string, error)
}
