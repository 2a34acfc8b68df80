package adapters

import (
	"context"
	"database/sql"
)

// DBAdapter defines the database operations needed by the event store.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	ExecSerializable(ctx context.Context, query string) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// stdRows wraps sql.Rows to implement DBRows.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool             { return s.rows.Next() }
func (s *stdRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }
func (s *stdRows) Err() error             { return s.rows.Err() }
func (s *stdRows) Close() error           { return s.rows.Close() }

// fixedResult is a DBResult whose row count was read before the transaction was committed.
type fixedResult struct {
	rowsAffected int64
}

func (r fixedResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) { return s.result.RowsAffected() }

// execInStdTx executes query inside tx and commits it. The transaction is rolled back on any failure.
func execInStdTx(ctx context.Context, tx *sql.Tx, query string) (DBResult, error) {
	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return fixedResult{rowsAffected: rowsAffected}, nil
}
