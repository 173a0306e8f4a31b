package dialects

import (
	"fmt"

	_ "modernc.org/sqlite"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
)

// sqliteDialect implements Dialect for SQLite (3.35 or later for RETURNING).
type sqliteDialect struct{}

func (sqliteDialect) QuoteIdent(name string) string { return ident.Wrap(name, `"`, `"`) }

func (sqliteDialect) Placeholder(int) string { return "?" }

// TablesQuery ignores schema, SQLite only has the main database here.
func (sqliteDialect) TablesQuery(string) (string, []any) {
	return `
	    SELECT name AS table_name
		FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name`, nil
}

// ColumnsQuery flags generated columns (hidden 2 and 3) and INTEGER PRIMARY
// KEY columns, which alias the rowid and are filled in by the store.
func (sqliteDialect) ColumnsQuery(_, table string) (string, []any) {
	return `
	    SELECT name AS column_name, type AS data_type, dflt_value AS column_default,
		       CASE WHEN hidden IN (2, 3) OR (pk = 1 AND upper(type) = 'INTEGER') THEN 1 ELSE 0 END AS is_generated,
		       CASE WHEN "notnull" = 0 AND pk = 0 THEN 1 ELSE 0 END AS is_nullable,
		       CASE WHEN pk > 0 THEN 1 ELSE 0 END AS is_primary_key
		FROM pragma_table_xinfo(?)
		ORDER BY cid`, []any{table}
}

func (sqliteDialect) SelectRows(table, key string, limit int) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC LIMIT %d", table, key, limit)
}

func (sqliteDialect) Returning() db.Returning { return db.ReturningClause }

func init() {
	db.Register("sqlite3", sqliteDialect{})
	db.Register("sqlite", sqliteDialect{})
}
