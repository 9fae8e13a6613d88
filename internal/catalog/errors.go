package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets a vehicle that does
// not exist in the authoritative store. The repository never creates
// a record as a substitute for updating a missing one.
var ErrNotFound = errors.New("vehicle not found")

// TransientError wraps a failed remote store call. List falls back to
// the last local snapshot on it; writes against the primary store
// propagate it to the caller.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
