// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// LoreStore is an in-memory implementation of ports.LoreStore,
// ports.LoreWriter and ports.LoreLister.
type LoreStore struct {
	mu       sync.Mutex
	Entities map[string]*entities.LoreEntity
	Err      error

	// Call tracking
	FetchCallCount int
	SaveCallCount  int
	LastListLimit  int
}

// NewLoreStore creates a mock store seeded with the given entities.
func NewLoreStore(seed ...*entities.LoreEntity) *LoreStore {
	m := &LoreStore{Entities: make(map[string]*entities.LoreEntity)}
	for _, e := range seed {
		m.Entities[e.Key()] = e
	}
	return m
}

// Fetch returns a copy of the stored entity.
func (m *LoreStore) Fetch(_ context.Context, novelID, entityID string) (*entities.LoreEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.Entities[novelID+"/"+entityID]
	if !ok {
		return nil, fmt.Errorf("lore entity %s/%s: %w", novelID, entityID, entities.ErrNotFound)
	}
	cp := *e
	cp.Fragments = append([]entities.DisclosureFragment(nil), e.Fragments...)
	return &cp, nil
}

// SaveEntity stores or replaces an entity.
func (m *LoreStore) SaveEntity(_ context.Context, e *entities.LoreEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Entities[e.Key()] = e
	return nil
}

// ListEntities lists entities for a novel ordered by id.
func (m *LoreStore) ListEntities(_ context.Context, novelID string, limit, offset int) ([]*entities.LoreEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastListLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	var result []*entities.LoreEntity
	for _, e := range m.Entities {
		if e.NovelID == novelID {
			result = append(result, &entities.LoreEntity{
				NovelID:  e.NovelID,
				EntityID: e.EntityID,
				Name:     e.Name,
				Type:     e.Type,
			})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EntityID < result[j].EntityID
	})
	if offset >= len(result) {
		return []*entities.LoreEntity{}, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// CountEntities counts entities for a novel.
func (m *LoreStore) CountEntities(_ context.Context, novelID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, e := range m.Entities {
		if e.NovelID == novelID {
			count++
		}
	}
	return count, nil
}

// FetchCalls returns the number of Fetch calls so far.
func (m *LoreStore) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCallCount
}
