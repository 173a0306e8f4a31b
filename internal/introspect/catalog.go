package introspect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
)

// Catalog lists tables and describes their columns from the store's live
// metadata. Nothing is cached; every call runs its query.
type Catalog struct {
	ex     db.Executor
	d      db.Dialect
	schema string
}

// New returns a Catalog reading schema through ex. An empty schema selects
// the dialect's default.
func New(ex db.Executor, d db.Dialect, schema string) *Catalog {
	return &Catalog{ex: ex, d: d, schema: schema}
}

// Tables returns the tables of the catalog schema in the store's order.
func (c *Catalog) Tables(ctx context.Context) ([]Table, error) {
	q, args := c.d.TablesQuery(c.schema)
	res, err := c.ex.Query(ctx, q, args...)
	if err != nil {
		return nil, db.Wrap("tables", "", err)
	}

	tables := make([]Table, 0, len(res.Rows))
	for _, r := range res.Rows {
		if len(r.Values) == 0 {
			continue
		}
		tables = append(tables, Table{Name: asString(r.Values[0])})
	}
	return tables, nil
}

// Columns returns the columns of table in ordinal order. The name is checked
// before anything is sent to the store and then passed as a bound value.
func (c *Catalog) Columns(ctx context.Context, table string) ([]Column, error) {
	if !ident.Valid(table) {
		return nil, ident.ErrInvalidTable
	}

	q, args := c.d.ColumnsQuery(c.schema, table)
	res, err := c.ex.Query(ctx, q, args...)
	if err != nil {
		return nil, db.Wrap("schema", table, err)
	}

	cols := make([]Column, 0, len(res.Rows))
	for _, r := range res.Rows {
		if len(r.Values) < 6 {
			return nil, db.Wrap("schema", table, fmt.Errorf("unexpected column row width %d", len(r.Values)))
		}
		cols = append(cols, Column{
			Name:      asString(r.Values[0]),
			Type:      asString(r.Values[1]),
			Default:   asNullString(r.Values[2]),
			Generated: asBool(r.Values[3]),
			Nullable:  asBool(r.Values[4]),
			PK:        asBool(r.Values[5]),
		})
	}
	return cols, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

func asNullString(v any) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

// asBool accepts the boolean spellings drivers use for flag columns.
func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int32:
		return b != 0
	case int:
		return b != 0
	case float64:
		return b != 0
	case string, []byte:
		s := strings.ToLower(strings.TrimSpace(asString(b)))
		if ok, err := strconv.ParseBool(s); err == nil {
			return ok
		}
		return s == "yes" || s == "y"
	default:
		return false
	}
}
