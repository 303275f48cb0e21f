package plan

import "fmt"

// ParseError reports a malformed observing date.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q (want YYYY-MM-DD): %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ComputationError reports a star whose rows could not be computed.
type ComputationError struct {
	Star string
	Err  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Star, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
