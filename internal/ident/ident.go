// Package ident is the only place where names supplied by a client are turned
// into statement text.
//
// Table and column names cannot be bound as parameters, so every identifier
// that ends up inside a statement must go through Table or Column first.
// Values never go through this package; they are always bound.
package ident

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidTable is returned for table names that are not plain identifiers.
	ErrInvalidTable = errors.New("invalid table name")

	// ErrInvalidColumn is returned for column names that cannot be quoted.
	ErrInvalidColumn = errors.New("invalid column name")
)

var pattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Quoter wraps a name in the dialect's identifier quotes, escaping any quote
// characters inside it.
type Quoter interface {
	QuoteIdent(name string) string
}

// Valid reports whether name consists only of ASCII letters, digits and
// underscores. It is purely syntactic: keywords are valid names.
func Valid(name string) bool {
	return pattern.MatchString(name)
}

// Table validates a table name and returns it quoted for q.
func Table(q Quoter, name string) (string, error) {
	if !Valid(name) {
		return "", ErrInvalidTable
	}
	return q.QuoteIdent(name), nil
}

// Column returns a client supplied column name quoted for q.
//
// Column names are taken as the client sent them and are not matched against
// the table's schema, so anything the store accepts as a quoted name is let
// through. Quoting doubles embedded quote characters, which keeps the name
// inside a single identifier token.
func Column(q Quoter, name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) {
		return "", ErrInvalidColumn
	}
	return q.QuoteIdent(name), nil
}

// Wrap quotes name with open and close, doubling every occurrence of close
// inside it. Dialects use it to implement Quoter.
func Wrap(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}
