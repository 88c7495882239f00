package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier runs parameterized statements. Both *pgxpool.Pool (autocommit, one
// pooled connection per call) and pgx.Tx (the transaction's connection) satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner acquires a connection and opens a transaction on it. The
// connection returns to the pool when the transaction commits or rolls back.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB is the pool handle injected into repositories.
type DB interface {
	Querier
	TxBeginner
}
