package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/ports"
)

// LibraryService serves novels and chapter text.
type LibraryService struct {
	library ports.Library
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(library ports.Library) *LibraryService {
	return &LibraryService{library: library}
}

// Novels lists every novel in the library.
func (s *LibraryService) Novels(ctx context.Context) ([]entities.Novel, error) {
	return s.library.ListNovels(ctx)
}

// Chapters lists a novel's chapters in reading order.
func (s *LibraryService) Chapters(ctx context.Context, novelID string) ([]entities.ChapterRef, error) {
	if err := validatePathID("novel id", novelID); err != nil {
		return nil, err
	}
	return s.library.ListChapters(ctx, novelID)
}

// Chapter returns the text of one chapter.
func (s *LibraryService) Chapter(ctx context.Context, novelID, chapterID string) (*entities.Chapter, error) {
	if err := validatePathID("novel id", novelID); err != nil {
		return nil, err
	}
	if err := validatePathID("chapter id", chapterID); err != nil {
		return nil, err
	}
	return s.library.GetChapter(ctx, novelID, chapterID)
}

// validatePathID rejects ids that could escape the library directory.
func validatePathID(field, id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%s is required: %w", field, entities.ErrInvalidInput)
	case id == "." || id == "..",
		strings.ContainsAny(id, `/\`),
		strings.ContainsRune(id, 0):
		return fmt.Errorf("%s %q is not allowed: %w", field, id, entities.ErrInvalidInput)
	}
	return nil
}
