package handlers

import (
	"context"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/services"
)

// LibraryHandler serves novels and chapters.
type LibraryHandler struct {
	service *services.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(service *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{service: service}
}

// HandleNovels lists the library.
func (h *LibraryHandler) HandleNovels(ctx context.Context) ([]entities.Novel, error) {
	return h.service.Novels(ctx)
}

// HandleChapters lists a novel's chapters in reading order.
func (h *LibraryHandler) HandleChapters(ctx context.Context, novelID string) ([]entities.ChapterRef, error) {
	return h.service.Chapters(ctx, novelID)
}

// HandleChapter returns one chapter's text.
func (h *LibraryHandler) HandleChapter(ctx context.Context, novelID, chapterID string) (*entities.Chapter, error) {
	return h.service.Chapter(ctx, novelID, chapterID)
}
