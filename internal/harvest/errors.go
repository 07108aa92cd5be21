package harvest

import "errors"

// Failure taxonomy. Every component catches these at its own task boundary and
// degrades; none of them ever reaches the orchestrator as a fatal condition.
var (
	// ErrNetwork marks a fetch that exhausted its retry budget.
	ErrNetwork = errors.New("fetch retry budget exhausted")
	// ErrParse marks a document in which the extractor found no matching structure.
	ErrParse = errors.New("no matching structure in document")
	// ErrPersistence marks a failed sink write; the batch is dropped, not retried.
	ErrPersistence = errors.New("sink write failed")
)
