package lookup

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no service knows the name.
var ErrNotFound = errors.New("not found")

// ServiceError reports a failed request to a remote service.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
