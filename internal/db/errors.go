package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNotFound    = errors.New("db: row not found")
	ErrUnavailable = errors.New("db: store unavailable")
)

// Op constants map to SQL statement kinds for error context.
const (
	OpInsert = "INSERT"
	OpSelect = "SELECT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
	OpPing   = "PING"
	OpSchema = "DDL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports whether the error is a transient store failure
// worth retrying (connection loss, timeout, serialization failure).
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
