package models

import "fmt"

// ValidationError reports a caller-supplied draft that fails a precondition.
// No state is mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// PersistenceError reports a failed write to the simulated remote, including
// injected random failures. Any optimistic update has been rolled back.
type PersistenceError struct {
	Op     string
	Reason string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotFoundError reports an operation against a post that no longer exists,
// e.g. one removed by the expiry sweep.
type NotFoundError struct {
	PostID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %s not found", e.PostID)
}
