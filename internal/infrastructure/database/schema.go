package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the tables and indexes when they are missing. Idempotent.
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	return nil
}

// UniqueViolation is the SQLSTATE Postgres reports for a unique index conflict.
const UniqueViolation = pq.ErrorCode("23505")

// IsUniqueViolation reports whether err is a unique constraint violation, optionally
// on a specific constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pq.ErrorCode(pgErr.Code) != UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
