package parallel

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrTaskFailed = errors.New("parallel: task failed")
	ErrPoolSize   = errors.New("parallel: pool size must be at least 1")
	ErrFinalized  = errors.New("parallel: pool already finalized")
)

// TaskError is the first failure observed by a pool. It is returned by
// ProduceWith and Finalize once the pool has aborted.
type TaskError struct {
	// Worker is the index of the worker that ran the failing task.
	Worker int
	Err    error

	suppressed error
}

func (e *TaskError) Error() string {
	n := len(multierr.Errors(e.suppressed))
	if n == 0 {
		return fmt.Sprintf("parallel: worker %d: %v", e.Worker, e.Err)
	}
	return fmt.Sprintf("parallel: worker %d: %v (%d further errors suppressed)", e.Worker, e.Err, n)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Is matches ErrTaskFailed so callers can detect a propagated failure without
// knowing the underlying cause.
func (e *TaskError) Is(target error) bool { return target == ErrTaskFailed }

// Suppressed returns the failures that arrived after the first one.
func (e *TaskError) Suppressed() []error { return multierr.Errors(e.suppressed) }
