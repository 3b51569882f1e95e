// Package command implements the two Command Executors named by spec.md
// §4.2's task node: "python" and "shell". Both are invoked by the local
// traversal Dispatcher (internal/executor/traversal) once per retry
// attempt; container and renderer Dispatchers never import this package
// directly (they re-enter the CLI or emit scripts instead).
package command

// Result is what a Command Executor returns from one execution attempt.
type Result struct {
	// Message is a short human-readable summary, recorded on the Attempt
	// Log and, on failure, surfaced as the error text.
	Message string
	// Parameters holds values the task returned to be persisted as new
	// run-level parameters (spec.md §4.2: "Return value, if non-empty,
	// must be a mapping; each key/value is persisted as a user-set
	// parameter"). Nil when the task returned nothing.
	Parameters map[string]any
}
