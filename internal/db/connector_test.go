package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"tableadmin/internal/ident"
)

var testdialect string = "testdialect"

type testDialect struct{}

func (testDialect) QuoteIdent(name string) string { return ident.Wrap(name, `"`, `"`) }
func (testDialect) Placeholder(int) string        { return "?" }
func (testDialect) TablesQuery(string) (string, []any) {
	return "SELECT name FROM sqlite_master WHERE type = 'table'", nil
}
func (testDialect) ColumnsQuery(_, table string) (string, []any) {
	return "SELECT name FROM pragma_table_info(?)", []any{table}
}
func (testDialect) SelectRows(table, key string, limit int) string {
	return "SELECT * FROM " + table
}
func (testDialect) Returning() Returning { return ReturningClause }

func TestRegister(t *testing.T) {
	// tests both Register and RegisteredDialects because they take the same setup

	Register(testdialect, testDialect{})

	if _, ok := Lookup(testdialect); !ok {
		t.Errorf("\ndialect %v not registered correctly in %v", testdialect, dialects)
	}

	rd := RegisteredDialects()
	assert.Contains(t, rd, testdialect)
	assert.IsNonDecreasing(t, rd)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	var tests = []struct {
		name          string
		dialect       string
		dsn           string
		timeout       int
		registerFirst bool
		errIsNil      bool
	}{
		{"unregistered dialect", "nosuchdialect", "", 1, false, false},
		{"sqlite with testDialect", "sqlite", "file:" + filepath.Join(dir, "open.db"), 2, true, true},
	}

	for _, tt := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(tt.name, func(t *testing.T) {
			if tt.registerFirst {
				Register(tt.dialect, testDialect{})
			}

			p, err := Open(tt.dialect, tt.dsn, tt.timeout)

			if (err == nil) != tt.errIsNil {
				if tt.errIsNil {
					t.Errorf("\ngot unexpected error: \"%v\"", err)
				} else {
					t.Errorf("\nexpected an error, did not receive one")
				}
			}
			if p != nil {
				p.Close()
			}
		})
	}
}

// adjustingDialect rewrites every DSN to target.
type adjustingDialect struct {
	testDialect
	target string
	err    error
}

func (a adjustingDialect) AdjustDSN(string) (string, error) { return a.target, a.err }

func TestOpenAdjustsDSN(t *testing.T) {
	t.Cleanup(func() { Register("sqlite", testDialect{}) })
	path := filepath.Join(t.TempDir(), "adjusted.db")

	Register("sqlite", adjustingDialect{target: "file:" + path})
	p, err := Open("sqlite", "file:"+filepath.Join(t.TempDir(), "given.db"), 2)
	require.NoError(t, err)
	defer p.Close()
	_, err = p.Exec(context.Background(), `CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	Register("sqlite", adjustingDialect{err: errors.New("bad dsn")})
	_, err = Open("sqlite", "whatever", 1)
	assert.ErrorContains(t, err, "bad dsn")
}

func TestPoolQueryAndExec(t *testing.T) {
	Register("sqlite", testDialect{})
	p, err := Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "pool.db"), 2)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "sqlite", p.Driver)

	ctx := context.Background()
	_, err = p.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, label TEXT, data BLOB, price REAL)`)
	require.NoError(t, err)
	_, err = p.Exec(ctx, `INSERT INTO items (label, data, price) VALUES (?, ?, ?)`, "a", []byte("raw"), 1.5)
	require.NoError(t, err)

	res, err := p.Query(ctx, `SELECT * FROM items WHERE label = ?`, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "data", "price"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 1, res.RowCount)

	rec := res.Rows[0]
	v, ok := rec.Get("data")
	require.True(t, ok)
	assert.Equal(t, "raw", v)
	_, ok = rec.Get("missing")
	assert.False(t, ok)

	empty, err := p.Query(ctx, `SELECT * FROM items WHERE label = ?`, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)
}

func TestRecordMarshalJSONKeepsOrder(t *testing.T) {
	r := Record{
		Columns: []string{"id", "name", "email", "note"},
		Values:  []any{int64(1), "Ann", "a@x.com", nil},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"Ann","email":"a@x.com","note":null}`, string(b))

	assert.Equal(t, map[string]any{"id": int64(1), "name": "Ann", "email": "a@x.com", "note": nil}, r.Map())
}

func TestStoreErrorMessage(t *testing.T) {
	var tests = []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("no such table: users"), "no such table: users"},
		{"postgres", &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "users_email_key"`},
			`duplicate key value violates unique constraint "users_email_key"`},
		{"wrapped postgres", fmt.Errorf("read back: %w", &pq.Error{Message: `relation "users" does not exist`}),
			`relation "users" does not exist`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap("create", "users", tt.err)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.NoError(t, Wrap("create", "users", nil))
}
