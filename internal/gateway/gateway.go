// Package gateway turns a table name and a client payload into statements
// for an arbitrary table, with no fixed data model.
//
// Every operation checks the table name before anything else and returns
// ErrInvalidIdentifier without touching the store when it is not a plain
// identifier. Column names come only from payload keys and are quoted; all
// values, including the key, are bound as parameters in the same order their
// placeholders appear in the statement text. The key from the path is bound
// as text and left to the store to coerce against the key column's type.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableadmin/internal/db"
	"tableadmin/internal/ident"
	"tableadmin/internal/introspect"
	"tableadmin/internal/logger"
)

// Options controls statement building.
type Options struct {
	// RowLimit caps List. It guards against unbounded responses and is not
	// a paging mechanism.
	RowLimit int

	// KeyColumn is the primary key column matched by Update and Delete.
	KeyColumn string

	// StrictColumns checks payload keys against the live schema before
	// building a write.
	StrictColumns bool
}

// Gateway runs record operations on any table.
type Gateway struct {
	ex      db.Executor
	d       db.Dialect
	catalog *introspect.Catalog
	opts    Options
	key     string
}

// New returns a Gateway. catalog is only consulted in strict column mode.
func New(ex db.Executor, d db.Dialect, catalog *introspect.Catalog, opts Options) (*Gateway, error) {
	if opts.RowLimit <= 0 {
		opts.RowLimit = 100
	}
	if opts.KeyColumn == "" {
		opts.KeyColumn = "id"
	}
	if !ident.Valid(opts.KeyColumn) {
		return nil, fmt.Errorf("invalid key column: %q", opts.KeyColumn)
	}
	if opts.StrictColumns && catalog == nil {
		return nil, fmt.Errorf("strict column mode needs a catalog")
	}
	return &Gateway{
		ex:      ex,
		d:       d,
		catalog: catalog,
		opts:    opts,
		key:     d.QuoteIdent(opts.KeyColumn),
	}, nil
}

// List returns up to RowLimit rows of table in ascending key order.
func (g *Gateway) List(ctx context.Context, table string) ([]db.Record, error) {
	t, err := ident.Table(g.d, table)
	if err != nil {
		return nil, err
	}

	q := g.d.SelectRows(t, g.key, g.opts.RowLimit)
	logger.Debug("list %s: %s", table, q)
	res, err := g.ex.Query(ctx, q)
	if err != nil {
		return nil, db.Wrap("list", table, err)
	}
	return res.Rows, nil
}

// Create inserts one row and returns it as stored, defaults included.
func (g *Gateway) Create(ctx context.Context, table string, p Payload) (db.Record, error) {
	t, cols, args, err := g.prepareWrite(ctx, table, p)
	if err != nil {
		return db.Record{}, err
	}

	marks := make([]string, len(args))
	for i := range args {
		marks[i] = g.d.Placeholder(i + 1)
	}
	colList := strings.Join(cols, ", ")
	values := strings.Join(marks, ", ")

	switch g.d.Returning() {
	case db.ReturningClause:
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *", t, colList, values)
		return g.returnOne(ctx, "create", table, q, args, true)
	case db.OutputClause:
		q := fmt.Sprintf("INSERT INTO %s (%s) OUTPUT INSERTED.* VALUES (%s)", t, colList, values)
		return g.returnOne(ctx, "create", table, q, args, true)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t, colList, values)
	logger.Debug("create %s: %s", table, q)
	res, err := g.ex.Exec(ctx, q, args...)
	if err != nil {
		return db.Record{}, db.Wrap("create", table, err)
	}

	key, ok := p.Get(g.opts.KeyColumn)
	if !ok {
		id, err := res.LastInsertId()
		if err != nil {
			return db.Record{}, db.Wrap("create", table, fmt.Errorf("read back inserted row: %w", err))
		}
		key = id
	}
	rec, err := g.selectByKey(ctx, "create", table, t, key)
	if errors.Is(err, ErrNotFound) {
		return db.Record{}, db.Wrap("create", table, fmt.Errorf("inserted row with %s %v not found", g.opts.KeyColumn, key))
	}
	return rec, err
}

// Update sets every payload field on the row whose key equals id and returns
// the row as stored afterwards.
func (g *Gateway) Update(ctx context.Context, table, id string, p Payload) (db.Record, error) {
	t, cols, args, err := g.prepareWrite(ctx, table, p)
	if err != nil {
		return db.Record{}, err
	}

	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = c + " = " + g.d.Placeholder(i+1)
	}
	// the key is always the last bound value
	where := g.key + " = " + g.d.Placeholder(len(args)+1)
	args = append(args, id)
	setList := strings.Join(set, ", ")

	switch g.d.Returning() {
	case db.ReturningClause:
		q := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING *", t, setList, where)
		return g.returnOne(ctx, "update", table, q, args, false)
	case db.OutputClause:
		q := fmt.Sprintf("UPDATE %s SET %s OUTPUT INSERTED.* WHERE %s", t, setList, where)
		return g.returnOne(ctx, "update", table, q, args, false)
	}

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t, setList, where)
	logger.Debug("update %s: %s", table, q)
	res, err := g.ex.Exec(ctx, q, args...)
	if err != nil {
		return db.Record{}, db.Wrap("update", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Record{}, db.Wrap("update", table, err)
	}
	if n == 0 {
		return db.Record{}, ErrNotFound
	}

	// the payload may have moved the row to a new key
	key, ok := p.Get(g.opts.KeyColumn)
	if !ok {
		key = id
	}
	return g.selectByKey(ctx, "update", table, t, key)
}

// Delete removes the row whose key equals id and returns its prior content.
func (g *Gateway) Delete(ctx context.Context, table, id string) (db.Record, error) {
	t, err := ident.Table(g.d, table)
	if err != nil {
		return db.Record{}, err
	}

	where := g.key + " = " + g.d.Placeholder(1)
	args := []any{id}

	switch g.d.Returning() {
	case db.ReturningClause:
		q := fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING *", t, where)
		return g.returnOne(ctx, "delete", table, q, args, false)
	case db.OutputClause:
		q := fmt.Sprintf("DELETE FROM %s OUTPUT DELETED.* WHERE %s", t, where)
		return g.returnOne(ctx, "delete", table, q, args, false)
	}

	rec, err := g.selectByKey(ctx, "delete", table, t, args[0])
	if err != nil {
		return db.Record{}, err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s", t, where)
	logger.Debug("delete %s: %s", table, q)
	res, err := g.ex.Exec(ctx, q, args...)
	if err != nil {
		return db.Record{}, db.Wrap("delete", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Record{}, db.Wrap("delete", table, err)
	}
	if n == 0 {
		return db.Record{}, ErrNotFound
	}
	return rec, nil
}

// prepareWrite validates the table and payload and returns the quoted table,
// the quoted columns and the values in matching order.
func (g *Gateway) prepareWrite(ctx context.Context, table string, p Payload) (string, []string, []any, error) {
	t, err := ident.Table(g.d, table)
	if err != nil {
		return "", nil, nil, err
	}
	if len(p) == 0 {
		return "", nil, nil, ErrEmptyPayload
	}
	if g.opts.StrictColumns {
		if err := g.checkColumns(ctx, table, p); err != nil {
			return "", nil, nil, err
		}
	}

	cols := make([]string, len(p))
	args := make([]any, len(p))
	for i, f := range p {
		c, err := ident.Column(g.d, f.Column)
		if err != nil {
			return "", nil, nil, err
		}
		cols[i] = c
		args[i] = f.Value
	}
	return t, cols, args, nil
}

func (g *Gateway) checkColumns(ctx context.Context, table string, p Payload) error {
	cols, err := g.catalog.Columns(ctx, table)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.Name] = true
	}
	for _, f := range p {
		if !known[f.Column] {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, f.Column)
		}
	}
	return nil
}

// returnOne runs a statement that hands back the affected row. When no row
// comes back the key matched nothing, unless the statement was an insert.
func (g *Gateway) returnOne(ctx context.Context, op, table, q string, args []any, insert bool) (db.Record, error) {
	logger.Debug("%s %s: %s", op, table, q)
	res, err := g.ex.Query(ctx, q, args...)
	if err != nil {
		return db.Record{}, db.Wrap(op, table, err)
	}
	if res.RowCount == 0 || len(res.Rows) == 0 {
		if insert {
			return db.Record{}, db.Wrap(op, table, fmt.Errorf("insert returned no row"))
		}
		return db.Record{}, ErrNotFound
	}
	return res.Rows[0], nil
}

func (g *Gateway) selectByKey(ctx context.Context, op, table, quoted string, key any) (db.Record, error) {
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", quoted, g.key, g.d.Placeholder(1))
	res, err := g.ex.Query(ctx, q, key)
	if err != nil {
		return db.Record{}, db.Wrap(op, table, err)
	}
	if len(res.Rows) == 0 {
		return db.Record{}, ErrNotFound
	}
	return res.Rows[0], nil
}
