// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update administradoras and their legal contacts, abstracting
// SQL logic away from the service layer.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// query helpers run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notFound tags pgx.ErrNoRows with the table so sqlerr can pick the
// matching 404 message.
func notFound(table string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &tableError{table: table, err: err}
	}
	return err
}

type tableError struct {
	table string
	err   error
}

func (e *tableError) Error() string {
	return "table:" + e.table + ": " + e.err.Error()
}

func (e *tableError) Unwrap() error {
	return e.err
}
