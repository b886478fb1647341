package cachetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"freewriter/pkg/cache"
)

// Locker is an in-memory cache.Locker. TTLs are ignored; locks live until released.
type Locker struct {
	mu   sync.Mutex
	held map[string]int
	next int

	// Err, when set, is returned by every TryLock.
	Err error
}

var _ cache.Locker = (*Locker)(nil)

func NewLocker() *Locker {
	return &Locker{held: map[string]int{}}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.Err != nil {
		return nil, l.Err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, fmt.Errorf("%s: %w", key, cache.ErrLocked)
	}

	l.next++
	gen := l.next
	l.held[key] = gen
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key] == gen {
			delete(l.held, key)
		}
	}, nil
}

// Held lists the keys currently locked.
func (l *Locker) Held() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.held))
	for k := range l.held {
		keys = append(keys, k)
	}
	return keys
}
