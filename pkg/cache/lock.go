package cache

import (
	"context"
	"errors"
	"time"
)

// ErrLocked is returned by TryLock while another holder owns the key.
var ErrLocked = errors.New("lock is held")

// Locker hands out exclusive locks that expire on their own if the holder dies.
type Locker interface {
	// TryLock never waits. The returned release is a no-op once the lock expired
	// or was taken over.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

const KeyMaintenanceLockPrefix = "lock:maintenance:"
