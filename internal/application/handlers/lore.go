package handlers

import (
	"context"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// Resolver resolves the spoiler-safe view of a lore entity.
type Resolver interface {
	Resolve(ctx context.Context, novelID, entityID string, currentChapter int) (*entities.VisibleLoreView, error)
}

// LoreHandler serves lore lookups to the CLI and HTTP layers.
type LoreHandler struct {
	resolver Resolver
}

// NewLoreHandler creates a new LoreHandler.
func NewLoreHandler(resolver Resolver) *LoreHandler {
	return &LoreHandler{
		resolver: resolver,
	}
}

// HandleResolve returns the entity as visible at currentChapter.
func (h *LoreHandler) HandleResolve(ctx context.Context, novelID, entityID string, currentChapter int) (*entities.VisibleLoreView, error) {
	return h.resolver.Resolve(ctx, novelID, entityID, currentChapter)
}
