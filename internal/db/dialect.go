package db

import (
	"slices"
	"strings"
	"sync"

	"tableadmin/internal/ident"
)

// Returning describes how a dialect hands back the rows touched by a write.
type Returning int

const (
	// ReturningClause appends RETURNING * to the statement.
	ReturningClause Returning = iota

	// OutputClause puts OUTPUT INSERTED.* or OUTPUT DELETED.* inside the statement.
	OutputClause

	// NoReturning means the row has to be read with a separate SELECT.
	NoReturning
)

// Dialect holds what differs between engines when building statements.
// Identifiers passed to its methods are already quoted.
type Dialect interface {
	ident.Quoter

	// Placeholder returns the marker for the n-th bound value, starting at 1.
	Placeholder(n int) string

	// TablesQuery returns the catalog query listing table names in schema.
	// An empty schema selects the dialect's default.
	TablesQuery(schema string) (string, []any)

	// ColumnsQuery returns the catalog query describing the columns of table
	// in ordinal order. Each row has column_name, data_type, column_default,
	// is_generated, is_nullable and is_primary_key.
	ColumnsQuery(schema, table string) (string, []any)

	// SelectRows returns a read of at most limit rows ordered by key.
	SelectRows(table, key string, limit int) string

	Returning() Returning
}

// DSNAdjuster is implemented by dialects that need driver options set on
// every DSN, including ones supplied verbatim by the user.
type DSNAdjuster interface {
	AdjustDSN(dsn string) (string, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// Register makes a Dialect available under name.
func Register(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(name)] = d
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// RegisteredDialects returns the registered dialect keys, sorted.
func RegisteredDialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	keys := make([]string, 0, len(dialects))
	for k := range dialects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
