package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freewriter/pkg/cache"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "books:home", []string{"a"}, time.Minute))
	require.NoError(t, m.Set(ctx, "books:count", 3, 0))
	require.NoError(t, m.Set(ctx, "categories:all", "x", 0))

	var got []string
	found, err := m.Get(ctx, "books:home", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a"}, got)

	require.NoError(t, m.DeletePattern(ctx, "books:*"))
	assert.ElementsMatch(t, []string{"categories:all"}, m.Keys())

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "short", 1, time.Second))
	m.now = func() time.Time { return now.Add(2 * time.Second) }
	ok, err := m.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocker(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()

	release, err := l.TryLock(ctx, "lock:a", time.Minute)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "lock:a", time.Minute)
	assert.ErrorIs(t, err, cache.ErrLocked)

	other, err := l.TryLock(ctx, "lock:b", time.Minute)
	require.NoError(t, err)
	other()

	release()
	release()
	assert.Empty(t, l.Held())

	_, err = l.TryLock(ctx, "lock:a", time.Minute)
	assert.NoError(t, err)
}
