package services

import (
	"context"
	"fmt"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/ports"
)

const (
	// DefaultListLimit is used when no limit is given.
	DefaultListLimit = 100
	// MaxListLimit bounds a single page of entities.
	MaxListLimit = 1000
)

// EntityService lists stored lore entities without disclosing their content.
type EntityService struct {
	lister ports.LoreLister
}

// NewEntityService creates a new EntityService.
func NewEntityService(lister ports.LoreLister) *EntityService {
	return &EntityService{
		lister: lister,
	}
}

// List returns entities for a novel with pagination.
func (s *EntityService) List(ctx context.Context, novelID string, limit, offset int) ([]*entities.LoreEntity, error) {
	novelID = entities.NormalizeID(novelID)
	if novelID == "" {
		return nil, fmt.Errorf("novel id is required: %w", entities.ErrInvalidInput)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.lister.ListEntities(ctx, novelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing lore entities: %w", err)
	}
	return list, nil
}

// Count returns the number of entities stored for a novel.
func (s *EntityService) Count(ctx context.Context, novelID string) (int, error) {
	novelID = entities.NormalizeID(novelID)
	if novelID == "" {
		return 0, fmt.Errorf("novel id is required: %w", entities.ErrInvalidInput)
	}
	count, err := s.lister.CountEntities(ctx, novelID)
	if err != nil {
		return 0, fmt.Errorf("counting lore entities: %w", err)
	}
	return count, nil
}
