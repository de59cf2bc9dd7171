//go:build unit || e2e

package dbtest

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBLike is satisfied by *pgxpool.Pool and pgx.Tx, so fixtures can seed
// bookings either straight into the test database or inside a transaction
// the test rolls back.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StoredStay is a booking row as the database holds it, dates as YYYY-MM-DD.
type StoredStay struct {
	StartDate string
	EndDate   string
}
