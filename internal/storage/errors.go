package storage

import "errors"

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// Error is returned by every repository operation that fails.
// Callers surface it to users as a generic failure and log the cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
