package worktree

import "fmt"

// ValidationError rejects an operation before any subprocess runs.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
