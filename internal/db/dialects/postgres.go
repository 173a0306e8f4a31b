package dialects

import (
	"fmt"
	"strconv"

	_ "github.com/lib/pq"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
)

// pgDialect implements Dialect using information_schema queries.
type pgDialect struct{}

func (pgDialect) QuoteIdent(name string) string { return ident.Wrap(name, `"`, `"`) }

func (pgDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (pgDialect) TablesQuery(schema string) (string, []any) {
	return `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_type = 'BASE TABLE'
          AND table_schema = $1
        ORDER BY table_name`, []any{orDefault(schema, "public")}
}

func (pgDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `
        SELECT c.column_name, c.data_type, c.column_default,
               (c.is_generated = 'ALWAYS' OR c.is_identity = 'YES'
                OR COALESCE(c.column_default, '') LIKE 'nextval(%') AS is_generated,
               c.is_nullable = 'YES' AS is_nullable,
               EXISTS (
                   SELECT 1
                   FROM information_schema.table_constraints tc
                   JOIN information_schema.key_column_usage k
                     ON tc.constraint_name = k.constraint_name
                    AND tc.table_schema = k.table_schema
                   WHERE tc.constraint_type = 'PRIMARY KEY'
                     AND k.table_schema = c.table_schema
                     AND k.table_name = c.table_name
                     AND k.column_name = c.column_name) AS is_primary_key
        FROM information_schema.columns c
        WHERE c.table_schema = $1 AND c.table_name = $2
        ORDER BY c.ordinal_position`, []any{orDefault(schema, "public"), table}
}

func (pgDialect) SelectRows(table, key string, limit int) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC LIMIT %d", table, key, limit)
}

func (pgDialect) Returning() db.Returning { return db.ReturningClause }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	db.Register("postgres", pgDialect{})
	db.Register("postgresql", pgDialect{})
}
