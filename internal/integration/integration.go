// Package integration defines the Integration Adapter contract (spec.md
// §6): a pre-execution hook the pipeline Executor runs against each node's
// resolved executor and service name before dispatching it, letting a
// deployment wire in organization-specific setup (image pulls, network
// policy, credential injection) without the core knowing about it.
package integration

import "context"

// Adapter validates and configures a node's executor before it runs.
// executor is the node's command_type ("shell", "python", or a container
// executor name); service names the target runtime (e.g. a cluster or
// queue) the traversal executor dispatches work to.
type Adapter interface {
	Validate(ctx context.Context, executor, service string) error
	ConfigureForTraversal(ctx context.Context, executor, service string) error
	ConfigureForExecution(ctx context.Context, executor, service string) error
}

// Noop is the zero-configuration Adapter: every hook succeeds without
// effect, the default when no deployment-specific adapter is registered.
type Noop struct{}

var _ Adapter = Noop{}

func (Noop) Validate(ctx context.Context, executor, service string) error               { return nil }
func (Noop) ConfigureForTraversal(ctx context.Context, executor, service string) error   { return nil }
func (Noop) ConfigureForExecution(ctx context.Context, executor, service string) error   { return nil }
