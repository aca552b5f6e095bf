// Package filesystem serves novels and translated chapters from a directory
// tree laid out as <root>/<novel>/translated/<language>/chapter-N.txt.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

const (
	chapterPrefix = "chapter-"
	chapterExt    = ".txt"
)

// Library implements ports.Library over the local filesystem.
type Library struct {
	root     string
	language string
}

// NewLibrary creates a Library rooted at cfg.Root.
func NewLibrary(cfg config.LibraryConfig) *Library {
	lang := cfg.Language
	if lang == "" {
		lang = "vn"
	}
	return &Library{
		root:     cfg.Root,
		language: lang,
	}
}

// ListNovels returns one entry per directory under the root, sorted by id.
// A missing root yields an empty list.
func (l *Library) ListNovels(_ context.Context) ([]entities.Novel, error) {
	dirEntries, err := os.ReadDir(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []entities.Novel{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading library root: %w", err)
	}

	novels := make([]entities.Novel, 0, len(dirEntries))
	for _, d := range dirEntries {
		if !d.IsDir() {
			continue
		}
		novels = append(novels, entities.Novel{
			ID:    d.Name(),
			Title: l.displayTitle(d.Name()),
			Path:  filepath.Join(l.root, d.Name()),
		})
	}
	sort.Slice(novels, func(i, j int) bool {
		return novels[i].ID < novels[j].ID
	})
	return novels, nil
}

// ListChapters returns chapter-N.txt files sorted by N. Files whose suffix is
// not an integer are skipped.
func (l *Library) ListChapters(_ context.Context, novelID string) ([]entities.ChapterRef, error) {
	dir := l.chapterDir(novelID)
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("novel chapters %s: %w", novelID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading chapter directory: %w", err)
	}

	chapters := make([]entities.ChapterRef, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if d.IsDir() || !strings.HasPrefix(name, chapterPrefix) || filepath.Ext(name) != chapterExt {
			continue
		}
		stem := strings.TrimSuffix(name, chapterExt)
		n, err := strconv.Atoi(stem[strings.LastIndex(stem, "-")+1:])
		if err != nil {
			continue
		}
		chapters = append(chapters, entities.ChapterRef{
			ID:     stem,
			Title:  l.displayTitle(stem),
			Number: n,
		})
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})
	return chapters, nil
}

// GetChapter reads a chapter file as UTF-8 text.
func (l *Library) GetChapter(_ context.Context, novelID, chapterID string) (*entities.Chapter, error) {
	path := filepath.Join(l.chapterDir(novelID), chapterID+chapterExt)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("chapter %s/%s: %w", novelID, chapterID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading chapter: %w", err)
	}
	return &entities.Chapter{ID: chapterID, Content: string(raw)}, nil
}

func (l *Library) chapterDir(novelID string) string {
	return filepath.Join(l.root, novelID, "translated", l.language)
}

// displayTitle turns "kurasu-de-nibanme" into "Kurasu De Nibanme".
// A Caser keeps state, so each call gets its own.
func (l *Library) displayTitle(id string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(id, "-", " "))
}
