// File: internal/store/errors.go
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("workflow not found")

// CorruptRecordError indicates a persisted record that exists but does not
// decode into a valid workflow. On a direct Get this is fatal to the call; in
// listings corrupt records are logged, skipped and collected instead.
type CorruptRecordError struct {
	ID   string
	Path string
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt workflow record %s (%s): %v", e.ID, e.Path, e.Err)
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}
