// Package database contains the Postgres store for the Foodgram service.
package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so queries can run
// inside or outside a transaction (pgx models nested Begin as a savepoint).
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

var _ Querier = (*Queries)(nil)

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Database struct {
	Querier

	Pool Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Querier: New(pool),
		Pool:    pool,
	}
}

const checkUsersTableExists = `SELECT EXISTS (
	SELECT FROM information_schema.tables
	WHERE table_schema = 'public' AND table_name = 'users'
)`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkUsersTableExists).Scan(&exists)
	return exists, err
}

// EnsureSchema applies the embedded schema to the database if the schema
// is not detected.
func (q *Queries) EnsureSchema(ctx context.Context) error {
	exists, err := q.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("ensuring schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := q.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}
