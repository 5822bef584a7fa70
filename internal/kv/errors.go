package kv

import "errors"

// ErrKeyNotFound signals a missing key. Readers treat it as "no value",
// not as a failure.
var ErrKeyNotFound = errors.New("kv: key not found")

// Op constants name store operations for error context.
const (
	OpGet  = "GET"
	OpSet  = "SET"
	OpDel  = "DEL"
	OpPing = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
