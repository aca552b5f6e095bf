package ports

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache with per-entry expiry.
// Both operations are fallible; callers treat failures as a miss on read and a
// no-op on write.
type Cache interface {
	// Get returns the value stored under key, or an error wrapping
	// entities.ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
