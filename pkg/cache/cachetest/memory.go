// Package cachetest provides an in-memory cache.Cache for tests.
package cachetest

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"freewriter/pkg/cache"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a goroutine-safe map-backed cache. TTLs are honoured lazily.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time

	// Err, when set, is returned by every call.
	Err error
}

var _ cache.Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: map[string]entry{}, now: time.Now}
}

func (m *Memory) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	e, ok := m.lookup(key)
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.value, dest)
}

func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.Err != nil {
		return m.Err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	e := entry{value: raw}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *Memory) DeletePattern(ctx context.Context, pattern string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return m.Err
}

// Keys returns the live keys (for assertions).
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.entries {
		if _, ok := m.lookup(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// lookup must be called with mu held.
func (m *Memory) lookup(key string) (entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return entry{}, false
	}
	return e, true
}
