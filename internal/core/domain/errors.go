package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is reported when a mutating command is submitted while another is in flight.
	ErrBusy = errors.New("a command is already running")
	// ErrMalformedStatus is returned for a status with an unterminated parenthesis.
	ErrMalformedStatus = errors.New("malformed container status")
	// ErrMalformedListingLine is returned for a listing line with fewer than three fields.
	ErrMalformedListingLine = errors.New("malformed listing line")
)

// ExecutionError summarises a run whose command reported runtime errors.
type ExecutionError struct {
	Errors int
	First  string
}

func (e *ExecutionError) Error() string {
	if e.Errors == 1 {
		return fmt.Sprintf("command reported 1 error: %s", e.First)
	}
	return fmt.Sprintf("command reported %d errors, first: %s", e.Errors, e.First)
}
