package mocks

import (
	"context"
	"fmt"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// Library is a mock implementation of ports.Library.
type Library struct {
	Novels   []entities.Novel
	Chapters map[string][]entities.ChapterRef
	Contents map[string]string // keyed by novelID + "/" + chapterID
	Err      error
}

// ListNovels returns the configured novels.
func (m *Library) ListNovels(_ context.Context) ([]entities.Novel, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Novels == nil {
		return []entities.Novel{}, nil
	}
	return m.Novels, nil
}

// ListChapters returns the configured chapters for a novel.
func (m *Library) ListChapters(_ context.Context, novelID string) ([]entities.ChapterRef, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	chapters, ok := m.Chapters[novelID]
	if !ok {
		return nil, fmt.Errorf("novel %s: %w", novelID, entities.ErrNotFound)
	}
	return chapters, nil
}

// GetChapter returns configured chapter content.
func (m *Library) GetChapter(_ context.Context, novelID, chapterID string) (*entities.Chapter, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	content, ok := m.Contents[novelID+"/"+chapterID]
	if !ok {
		return nil, fmt.Errorf("chapter %s/%s: %w", novelID, chapterID, entities.ErrNotFound)
	}
	return &entities.Chapter{ID: chapterID, Content: content}, nil
}
