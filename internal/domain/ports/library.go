package ports

import (
	"context"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// Library provides read access to novels and their translated chapters.
type Library interface {
	// ListNovels returns every novel in the library. An empty or missing
	// library yields an empty slice.
	ListNovels(ctx context.Context) ([]entities.Novel, error)

	// ListChapters returns a novel's chapters in reading order.
	ListChapters(ctx context.Context, novelID string) ([]entities.ChapterRef, error)

	// GetChapter returns the text of a single chapter.
	GetChapter(ctx context.Context, novelID, chapterID string) (*entities.Chapter, error)
}
