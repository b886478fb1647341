// Package dbtest connects integration tests (build tag "integration") to a real Postgres.
//
//	FREEWRITER_TEST_DATABASE_URL=postgres://... go test -tags integration ./...
//
// Tests share the database; they must create rows with unique names instead of truncating.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"freewriter/internal/infrastructure/database"
)

const EnvDatabaseURL = "FREEWRITER_TEST_DATABASE_URL"

// schemaLockID serialises EnsureSchema across test binaries running in parallel.
const schemaLockID = 7_240_301

// Open returns a pool on the test database with the schema applied. It skips the test
// when EnvDatabaseURL is unset.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, schemaLockID)
	require.NoError(t, err)
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, schemaLockID) //nolint:errcheck

	db := &database.PostgresDB{Pool: pool}
	require.NoError(t, db.EnsureSchema(ctx))
	return pool
}

// Unique suffixes name with a random token.
func Unique(name string) string {
	return name + "-" + uuid.NewString()[:8]
}

// CreateUser inserts a bare user for foreign keys.
func CreateUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	name := Unique("reader")
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, 'x')`,
		id, name, name+"@example.com")
	require.NoError(t, err)
	return id
}

// CreateBook inserts a bare book and returns its id.
func CreateBook(t *testing.T, pool *pgxpool.Pool, slug string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO books (title, author, summary, slug) VALUES ($1, 'Author', 'Summary', $1) RETURNING id`,
		slug).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateCategory inserts a category and returns its id.
func CreateCategory(t *testing.T, pool *pgxpool.Pool, slug string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO categories (name, slug) VALUES ($1, $1) RETURNING id`, slug).Scan(&id)
	require.NoError(t, err)
	return id
}
