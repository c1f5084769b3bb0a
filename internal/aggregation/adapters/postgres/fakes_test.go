package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sync"

	"marketing-analytics-service/internal/platform/database"
)

// fakeRowScanner assigns row values to Scan destinations by reflection.
type fakeRowScanner struct {
	rows [][]any
	i    int
}

func (f *fakeRowScanner) Next() bool { return f.i < len(f.rows) }

func (f *fakeRowScanner) Scan(dest ...any) error {
	row := f.rows[f.i]
	if len(dest) != len(row) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		target := reflect.ValueOf(dest[i]).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		if !v.Type().AssignableTo(target.Type()) {
			return errors.New("type mismatch for column " + target.Type().String())
		}
		target.Set(v)
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error   { return nil }
func (f *fakeRowScanner) Close() error { return nil }

type fakeResult struct{ n int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, errors.New("not implemented") }
func (r fakeResult) RowsAffected() (int64, error) { return r.n, nil }

type execCall struct {
	query string
	args  []any
}

// fakeDB records every statement. Statements run inside a transaction are
// recorded on the same log so tests can assert ordering.
type fakeDB struct {
	mu sync.Mutex

	QueryFn func(query string, args ...any) ([][]any, error)
	ExecFn  func(query string, args ...any) (int64, error)

	lastQuery string
	lastArgs  []any
	execs     []execCall

	begun      int
	committed  int
	rolledBack int
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (database.RowScanner, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.QueryFn == nil {
		return &fakeRowScanner{}, nil
	}
	rows, err := f.QueryFn(query, args...)
	if err != nil {
		return nil, err
	}
	return &fakeRowScanner{rows: rows}, nil
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.mu.Lock()
	f.execs = append(f.execs, execCall{query: query, args: args})
	f.mu.Unlock()
	if f.ExecFn != nil {
		n, err := f.ExecFn(query, args...)
		if err != nil {
			return nil, err
		}
		return fakeResult{n: n}, nil
	}
	return fakeResult{n: 1}, nil
}

func (f *fakeDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (database.Tx, error) {
	f.begun++
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...any) (database.RowScanner, error) {
	return t.db.QueryContext(ctx, query, args...)
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.db.ExecContext(ctx, query, args...)
}

func (t *fakeTx) Commit() error {
	t.db.committed++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.db.rolledBack++
	return nil
}
