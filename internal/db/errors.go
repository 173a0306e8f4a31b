package db

import (
	"errors"

	"github.com/lib/pq"
)

// StoreError is a failure reported by the store while running a statement:
// connection and permission problems as well as constraint violations. Its
// message is the store's own.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	// lib/pq prefixes every server message with "pq: "
	var pe *pq.Error
	if errors.As(e.Err, &pe) {
		return pe.Message
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *StoreError for op on table, or nil when err is nil.
func Wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Table: table, Err: err}
}
