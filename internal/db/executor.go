package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
)

// Executor runs statements against the store. Values are always passed in
// args, never formatted into query.
type Executor interface {

	// Query runs a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*Result, error)

	// Exec runs a statement that returns no rows, or a multi-statement script
	// when args is empty.
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Result holds the rows returned by one statement.
type Result struct {
	Columns  []string `json:"columns"`
	Rows     []Record `json:"rows"`
	RowCount int64    `json:"row_count"`
}

// Record is one row as returned by the store, in the store's column order.
type Record struct {
	Columns []string
	Values  []any
}

// Get returns the value of column name.
func (r Record) Get(name string) (any, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the record as a plain map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the record as a JSON object keeping column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scanRows reads every row of rs into records. Byte slices are turned into
// strings since drivers hand back text and numeric columns that way.
func scanRows(rs *sql.Rows) (*Result, error) {
	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols, Rows: []Record{}}
	for rs.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, Record{Columns: cols, Values: vals})
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	res.RowCount = int64(len(res.Rows))
	return res, nil
}
