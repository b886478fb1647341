package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction_Commits(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	err := WithTransaction(context.Background(), db, func(tx pgx.Tx) error { return nil })

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := WithTransaction(context.Background(), db, func(tx pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestWithTransaction_RollsBackAndRepanics(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTransaction(context.Background(), db, func(tx pgx.Tx) error { panic("kaboom") })
	})
	assert.True(t, db.tx.rolledBack)
}

func TestWithTransaction_BeginError(t *testing.T) {
	db := &fakeBeginner{err: errors.New("pool closed")}

	err := WithTransaction(context.Background(), db, func(tx pgx.Tx) error { return nil })
	assert.ErrorContains(t, err, "pool closed")
}

func TestWithTransactionResult(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	got, err := WithTransactionResult(context.Background(), db, func(tx pgx.Tx) (int64, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	db = &fakeBeginner{tx: &fakeTx{}}
	got, err = WithTransactionResult(context.Background(), db, func(tx pgx.Tx) (int64, error) {
		return 7, errors.New("nope")
	})
	assert.Error(t, err)
	assert.Zero(t, got)
}
