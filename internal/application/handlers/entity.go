package handlers

import (
	"context"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/services"
)

// EntityHandler handles entity operations at the application layer.
type EntityHandler struct {
	entityService *services.EntityService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(entityService *services.EntityService) *EntityHandler {
	return &EntityHandler{
		entityService: entityService,
	}
}

// EntityListResult contains the result of listing entities.
type EntityListResult struct {
	Entities []*entities.LoreEntity `json:"entities"`
	Total    int                    `json:"total"`
}

// HandleList returns a page of entities for a novel with the novel's total.
func (h *EntityHandler) HandleList(ctx context.Context, novelID string, limit, offset int) (*EntityListResult, error) {
	entitiesList, err := h.entityService.List(ctx, novelID, limit, offset)
	if err != nil {
		return nil, err
	}

	count, err := h.entityService.Count(ctx, novelID)
	if err != nil {
		return nil, err
	}

	return &EntityListResult{
		Entities: entitiesList,
		Total:    count,
	}, nil
}
