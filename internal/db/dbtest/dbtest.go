// Package dbtest has test helpers for code built on db.Executor.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"tableadmin/internal/db"
	_ "tableadmin/internal/db/dialects"
)

// Call is one statement seen by a Recorder.
type Call struct {
	Exec  bool
	Query string
	Args  []any
}

// Recorder is an Executor that records every statement. Statements are
// forwarded to Target when set, otherwise answered by OnQuery and OnExec.
type Recorder struct {
	Target  db.Executor
	OnQuery func(query string, args []any) (*db.Result, error)
	OnExec  func(query string, args []any) (sql.Result, error)

	mu    sync.Mutex
	calls []Call
}

// Query implements db.Executor.
func (r *Recorder) Query(ctx context.Context, query string, args ...any) (*db.Result, error) {
	r.record(Call{Query: query, Args: args})
	switch {
	case r.Target != nil:
		return r.Target.Query(ctx, query, args...)
	case r.OnQuery != nil:
		return r.OnQuery(query, args)
	}
	return Rows(nil), nil
}

// Exec implements db.Executor.
func (r *Recorder) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.record(Call{Exec: true, Query: query, Args: args})
	switch {
	case r.Target != nil:
		return r.Target.Exec(ctx, query, args...)
	case r.OnExec != nil:
		return r.OnExec(query, args)
	}
	return ExecResult{}, nil
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns the statements seen so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Reset forgets the recorded statements.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Rows builds a Result with the given columns and rows.
func Rows(cols []string, rows ...[]any) *db.Result {
	res := &db.Result{Columns: cols, Rows: []db.Record{}}
	for _, vals := range rows {
		res.Rows = append(res.Rows, db.Record{Columns: cols, Values: vals})
	}
	res.RowCount = int64(len(res.Rows))
	return res
}

// ExecResult is a fixed sql.Result.
type ExecResult struct {
	LastID   int64
	Affected int64
	Err      error
}

func (r ExecResult) LastInsertId() (int64, error) { return r.LastID, r.Err }
func (r ExecResult) RowsAffected() (int64, error) { return r.Affected, r.Err }

// OpenSQLite opens a pool on a fresh SQLite file and runs the setup
// statements. The pool is closed when the test ends.
func OpenSQLite(t testing.TB, setup ...string) *db.Pool {
	t.Helper()
	p, err := db.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db"), 5)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	for _, stmt := range setup {
		if _, err := p.Exec(context.Background(), stmt); err != nil {
			t.Fatalf("setup %q: %v", stmt, err)
		}
	}
	return p
}
