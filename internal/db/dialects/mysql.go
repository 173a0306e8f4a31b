package dialects

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
)

// myDialect implements Dialect for MySQL and MariaDB (information_schema).
// MySQL has no RETURNING for UPDATE, so writes are read back separately.
type myDialect struct{}

func (myDialect) QuoteIdent(name string) string { return ident.Wrap(name, "`", "`") }

func (myDialect) Placeholder(int) string { return "?" }

func (myDialect) TablesQuery(schema string) (string, []any) {
	return `
        SELECT table_name AS table_name
        FROM information_schema.tables
        WHERE table_type = 'BASE TABLE'
          AND table_schema = COALESCE(NULLIF(?, ''), DATABASE())
        ORDER BY table_name`, []any{schema}
}

func (myDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `
        SELECT column_name AS column_name, column_type AS data_type, column_default AS column_default,
               (extra LIKE '%auto_increment%' OR extra LIKE '%GENERATED%') AS is_generated,
               is_nullable = 'YES' AS is_nullable,
               column_key = 'PRI' AS is_primary_key
        FROM information_schema.columns
        WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
        ORDER BY ordinal_position`, []any{schema, table}
}

func (myDialect) SelectRows(table, key string, limit int) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC LIMIT %d", table, key, limit)
}

func (myDialect) Returning() db.Returning { return db.NoReturning }

// AdjustDSN turns on clientFoundRows so an UPDATE writing identical values
// still counts its matched row, and multiStatements for seed scripts.
func (myDialect) AdjustDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ClientFoundRows = true
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

func init() {
	db.Register("mysql", myDialect{})
	db.Register("mariadb", myDialect{})
}
