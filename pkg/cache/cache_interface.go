package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer (Redis in production, fakes in tests).
type Cache interface {
	// Get loads key into dest.
	// found = false on a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (e.g. "books:*").
	DeletePattern(ctx context.Context, pattern string) error

	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error
}

// Cache keys shared between packages.
const (
	KeyBooksPrefix    = "books:"
	KeyBooksPattern   = "books:*"
	KeyBooksHome      = "books:home"
	KeyBooksAll       = "books:all"
	KeyCategoriesList = "categories:all"
	KeyRevokedPrefix  = "auth:revoked:"
)
