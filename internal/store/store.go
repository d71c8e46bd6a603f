// Package store holds the resource models: stateless groups of queries over an
// injected executor. Expected failures are returned as errcode errors; anything
// else comes back wrapped and unclassified.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// validate 校验 PATCH 字段，与 gin 绑定时使用同一套 validator 标签。
var validate = validator.New()

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PasswordHasher is the opaque hash/verify pair the user model relies on.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

// Store bundles the three resource models over one executor.
type Store struct {
	Companies *Companies
	Jobs      *Jobs
	Users     *Users
}

func New(db DBTX, hasher PasswordHasher) *Store {
	return &Store{
		Companies: NewCompanies(db),
		Jobs:      NewJobs(db),
		Users:     NewUsers(db, hasher),
	}
}

// exists reports whether query returns at least one row.
func exists(ctx context.Context, db DBTX, query string, args ...any) (bool, error) {
	var one int
	err := db.QueryRow(ctx, query, args...).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

// collect drains rows with scan and never returns a nil slice, so empty
// results encode as [] rather than null.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	items, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (T, error) {
		return scan(r)
	})
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
