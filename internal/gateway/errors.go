package gateway

import (
	"errors"

	"tableadmin/internal/ident"
)

var (
	// ErrInvalidIdentifier is returned when the table name is not a plain
	// identifier. Nothing has been sent to the store.
	ErrInvalidIdentifier = ident.ErrInvalidTable

	// ErrInvalidColumn is returned when a payload key cannot be quoted.
	ErrInvalidColumn = ident.ErrInvalidColumn

	// ErrEmptyPayload is returned by writes without any field.
	ErrEmptyPayload = errors.New("no data")

	// ErrInvalidPayload is returned when a body is not a JSON object.
	ErrInvalidPayload = errors.New("invalid JSON body")

	// ErrUnknownColumn is returned in strict mode for keys the table lacks.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotFound is returned when no row has the requested key.
	ErrNotFound = errors.New("row not found")
)
