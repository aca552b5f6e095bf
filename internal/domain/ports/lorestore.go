// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// LoreStore is the read side of lore persistence.
// Implementations must return the full, unfiltered fragment list in storage
// order. Spoiler filtering never happens at this layer.
type LoreStore interface {
	// Fetch returns the entity identified by (novelID, entityID).
	// It returns an error wrapping entities.ErrNotFound when the entity does not
	// exist and entities.ErrStoreUnavailable when the backend cannot be reached.
	Fetch(ctx context.Context, novelID, entityID string) (*entities.LoreEntity, error)
}

// LoreWriter persists lore entities. Used by the seed command only.
type LoreWriter interface {
	// SaveEntity creates or replaces an entity and all of its fragments.
	SaveEntity(ctx context.Context, entity *entities.LoreEntity) error
}

// LoreLister enumerates stored entities for a novel.
type LoreLister interface {
	// ListEntities returns entities for a novel ordered by entity id.
	// Fragments are not populated.
	ListEntities(ctx context.Context, novelID string, limit, offset int) ([]*entities.LoreEntity, error)

	// CountEntities returns how many entities a novel has.
	CountEntities(ctx context.Context, novelID string) (int, error)
}

// SchemaManager prepares backend storage such as tables, indexes or collections.
type SchemaManager interface {
	// EnsureSchema creates missing storage structures. It is idempotent.
	EnsureSchema(ctx context.Context) error
}
