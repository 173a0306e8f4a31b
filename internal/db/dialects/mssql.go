package dialects

import (
	"fmt"
	"strconv"

	_ "github.com/denisenkom/go-mssqldb"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
)

// mssqlDialect implements Dialect for Microsoft SQL Server.
type mssqlDialect struct{}

func (mssqlDialect) QuoteIdent(name string) string { return ident.Wrap(name, "[", "]") }

func (mssqlDialect) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

func (mssqlDialect) TablesQuery(schema string) (string, []any) {
	return `
        SELECT TABLE_NAME AS table_name
        FROM INFORMATION_SCHEMA.TABLES
        WHERE TABLE_TYPE = 'BASE TABLE'
          AND TABLE_SCHEMA = @p1
        ORDER BY TABLE_NAME`, []any{orDefault(schema, "dbo")}
}

func (mssqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `
        SELECT c.COLUMN_NAME AS column_name, c.DATA_TYPE AS data_type, c.COLUMN_DEFAULT AS column_default,
               CASE WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1
                      OR COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsComputed') = 1
                    THEN 1 ELSE 0 END AS is_generated,
               CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END AS is_nullable,
               CASE WHEN EXISTS (
                   SELECT 1
                   FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS t
                   JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
                     ON t.CONSTRAINT_NAME = k.CONSTRAINT_NAME AND t.TABLE_SCHEMA = k.TABLE_SCHEMA
                   WHERE t.CONSTRAINT_TYPE = 'PRIMARY KEY'
                     AND k.TABLE_SCHEMA = c.TABLE_SCHEMA
                     AND k.TABLE_NAME = c.TABLE_NAME
                     AND k.COLUMN_NAME = c.COLUMN_NAME) THEN 1 ELSE 0 END AS is_primary_key
        FROM INFORMATION_SCHEMA.COLUMNS c
        WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
        ORDER BY c.ORDINAL_POSITION`, []any{orDefault(schema, "dbo"), table}
}

func (mssqlDialect) SelectRows(table, key string, limit int) string {
	return fmt.Sprintf("SELECT TOP (%d) * FROM %s ORDER BY %s ASC", limit, table, key)
}

func (mssqlDialect) Returning() db.Returning { return db.OutputClause }

func init() {
	db.Register("sqlserver", mssqlDialect{})
	db.Register("mssql", mssqlDialect{})
}
