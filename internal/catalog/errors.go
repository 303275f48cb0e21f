package catalog

import (
	"errors"
	"fmt"
)

// ErrExists is returned by Add when a star with the same name is already
// registered and the caller did not confirm the overwrite.
var ErrExists = errors.New("star already registered")

// ValidationError reports a missing or malformed star field.
type ValidationError struct {
	Field  string // empty when the problem spans several fields
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PersistenceError reports a failure to read or write the catalog file.
// The in-memory catalog stays authoritative when a write fails.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s catalog %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
