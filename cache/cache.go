package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key is absent or expired.
	ErrNotFound = errors.New("cache entry not found")
	// ErrBackend wraps transport and encoding failures of the backing store.
	ErrBackend = errors.New("cache backend unavailable")
)

// Cache is a TTL key/value store. Implementations must be safe for
// concurrent use; per-key operations are atomic.
type Cache interface {
	// Get decodes the value stored under key into dest.
	Get(ctx context.Context, key string, dest any) error
	// Set stores value under key for ttl. A non-positive ttl is rejected.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Find is a typed wrapper around Cache.Get.
func Find[T any](ctx context.Context, c Cache, key string) (*T, error) {
	var v T
	if err := c.Get(ctx, key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

var errInvalidTTL = errors.New("cache ttl must be positive")
