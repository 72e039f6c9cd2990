package store

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

const memoryPath = ":memory:"

// NewDB opens a DuckDB database. ":memory:" opens a private in-memory one.
func NewDB(path string) (*sql.DB, error) {
	dsn := path
	if path == memoryPath {
		dsn = ""
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// QueryInterceptor is the subset of *sql.DB used by the stores.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type loggingInterceptor struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewQueryInterceptor wraps db so that every statement is logged at debug level.
func NewQueryInterceptor(db *sql.DB) QueryInterceptor {
	return &loggingInterceptor{db: db, log: zap.S().Named("store")}
}

func (i *loggingInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	i.log.Debugw("query", "sql", query, "args", args)
	return i.db.QueryContext(ctx, query, args...)
}

func (i *loggingInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	i.log.Debugw("query row", "sql", query, "args", args)
	return i.db.QueryRowContext(ctx, query, args...)
}

func (i *loggingInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	i.log.Debugw("exec", "sql", query, "args", args)
	return i.db.ExecContext(ctx, query, args...)
}
