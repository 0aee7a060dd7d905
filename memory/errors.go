package memory

import "fmt"

// StoreError describes a failed interaction with the embedder or the
// vector store. The Manager logs these and degrades: write failures
// lose one record, query failures produce empty results. Neither
// aborts the caller's turn.
type StoreError struct {
	// Op is the failed operation: "embed", "insert", "query" or
	// "get_all".
	Op string

	// Collection is the target collection, when applicable.
	Collection string

	// Err is the underlying cause.
	Err error
}

func (e *StoreError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("memory: %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("memory: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
