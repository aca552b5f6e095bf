package entities

import "errors"

// Error conditions shared by the domain and its adapters. Callers match them
// with errors.Is; adapters wrap them with context.
var (
	// ErrInvalidInput marks a request rejected before any lookup.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an entity, novel or chapter that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a store that could not be reached. Retryable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCacheUnavailable marks a cache failure. Never surfaced to readers.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrCacheMiss is returned by caches when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
)
