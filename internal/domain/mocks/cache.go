package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// Cache is an in-memory implementation of ports.Cache. Expiry is recorded but
// not enforced.
type Cache struct {
	mu     sync.Mutex
	Items  map[string][]byte
	TTLs   map[string]time.Duration
	GetErr error
	SetErr error

	// Call tracking
	GetCallCount int
	SetCallCount int
}

// NewCache creates an empty mock cache.
func NewCache() *Cache {
	return &Cache{
		Items: make(map[string][]byte),
		TTLs:  make(map[string]time.Duration),
	}
}

// Get returns the stored value or entities.ErrCacheMiss.
func (m *Cache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCallCount++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.Items[key]
	if !ok {
		return nil, entities.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

// Set stores the value and remembers its ttl.
func (m *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCallCount++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Items[key] = append([]byte(nil), value...)
	m.TTLs[key] = ttl
	return nil
}

// Keys returns the number of stored entries.
func (m *Cache) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Items)
}

// Calls returns the Get and Set call counts.
func (m *Cache) Calls() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetCallCount, m.SetCallCount
}
