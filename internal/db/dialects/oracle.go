//go:build oracle
// +build oracle

package dialects

import (
	"fmt"
	"strconv"

	_ "github.com/godror/godror"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
)

// oracleDialect implements Dialect for Oracle. RETURNING INTO cannot hand
// back a whole row, so writes are read back separately.
type oracleDialect struct{}

func (oracleDialect) QuoteIdent(name string) string { return ident.Wrap(name, `"`, `"`) }

func (oracleDialect) Placeholder(n int) string { return ":" + strconv.Itoa(n) }

// TablesQuery lists the tables of schema, or of the connected user. Oracle
// treats the empty string as NULL, so NVL picks USER for the default.
func (oracleDialect) TablesQuery(schema string) (string, []any) {
	return `
	    SELECT table_name
	    FROM all_tables
	    WHERE owner = NVL(:1, USER)
	    ORDER BY table_name`, []any{schema}
}

func (oracleDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `
        SELECT c.column_name, c.data_type, c.data_default,
               CASE WHEN c.identity_column = 'YES' OR c.virtual_column = 'YES' THEN 1 ELSE 0 END,
               CASE WHEN c.nullable = 'Y' THEN 1 ELSE 0 END,
               CASE WHEN EXISTS (
                   SELECT 1
                   FROM all_cons_columns acc
                   JOIN all_constraints ac ON acc.owner = ac.owner AND acc.constraint_name = ac.constraint_name
                   WHERE ac.constraint_type = 'P'
                     AND acc.owner = c.owner
                     AND acc.table_name = c.table_name
                     AND acc.column_name = c.column_name) THEN 1 ELSE 0 END
        FROM all_tab_cols c
        WHERE c.owner = NVL(:1, USER) AND c.table_name = :2 AND c.hidden_column = 'NO'
        ORDER BY c.column_id`, []any{schema, table}
}

func (oracleDialect) SelectRows(table, key string, limit int) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC FETCH FIRST %d ROWS ONLY", table, key, limit)
}

func (oracleDialect) Returning() db.Returning { return db.NoReturning }

func init() {
	db.Register("godror", oracleDialect{})
	db.Register("oracle", oracleDialect{})
}
