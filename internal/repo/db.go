// Package repo contains all database access logic for the dispatch engine.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Repos accept this instead of a concrete pool so the assignment
// transaction can rebind every repo onto a single pgx.Tx, and integration
// tests can run inside a transaction that is rolled back afterwards.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, letting the scan helpers
// serve QueryRow and Query calls alike.
type scanner interface {
	Scan(dest ...any) error
}
