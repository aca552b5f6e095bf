// Package noop provides a cache that stores nothing.
package noop

import (
	"context"
	"time"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// Cache implements ports.Cache by always missing and discarding writes.
type Cache struct{}

// NewCache returns a no-op cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get always reports a miss.
func (Cache) Get(context.Context, string) ([]byte, error) {
	return nil, entities.ErrCacheMiss
}

// Set discards the value.
func (Cache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
