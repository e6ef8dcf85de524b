package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"fithub/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the threshold above which a query is logged at WARN.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB to log slow queries and record their latency.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation. A zero threshold means
// DefaultSlowQuery; a nil collector only logs.
// PRE: db is a valid database connection
func NewTimedDB(db *sql.DB, collector *perf.Collector, threshold time.Duration) *TimedDB {
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	return &TimedDB{db: db, collector: collector, threshold: threshold}
}

// RawDB returns the underlying *sql.DB (needed for migrations).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) observe(ctx context.Context, op string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed >= t.threshold {
		slog.WarnContext(ctx, "slow_query", "op", op, "duration_ms", elapsed.Milliseconds())
	} else {
		slog.DebugContext(ctx, "query", "op", op, "duration_ms", float64(elapsed.Microseconds())/1000.0)
	}
	t.collector.Record(perf.Entry{Kind: perf.KindQuery, Path: opName(ctx, op), Duration: elapsed})
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(ctx, "exec", start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(ctx, "query", start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(ctx, "query_row", start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe(ctx, "begin_tx", start)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

type opKey struct{}

// WithOp labels the queries issued under ctx, e.g. "account.GetByEmail".
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func opName(ctx context.Context, fallback string) string {
	if op, ok := ctx.Value(opKey{}).(string); ok && op != "" {
		return op
	}
	return fallback
}
