package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ersonp/lore-reader/internal/domain/services"
	"github.com/ersonp/lore-reader/internal/infrastructure/parsers"
)

// StdinPath selects standard input as the seed source.
const StdinPath = "-"

// ImportHandler seeds lore entities from JSON, CSV or YAML sources.
type ImportHandler struct {
	service *services.ImportService
	stdin   io.Reader
}

// NewImportHandler creates a new import handler reading "-" from os.Stdin.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
		stdin:   os.Stdin,
	}
}

// WithStdin replaces the reader used for StdinPath.
func (h *ImportHandler) WithStdin(r io.Reader) *ImportHandler {
	return &ImportHandler{service: h.service, stdin: r}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string // json, csv, yaml or auto (by extension)
	DryRun     bool
	OnConflict services.ConflictStrategy
}

// ImportResult summarizes one seed run.
type ImportResult struct {
	Source   string
	Novels   []string // distinct novel ids present in the source, sorted
	Imported int
	Skipped  int
	Errors   []services.ImportError
}

// Handle imports lore entities from filePath, or from stdin when filePath is
// StdinPath. Reading stdin needs an explicit format.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	parser, err := h.parserFor(filePath, opts.Format)
	if err != nil {
		return nil, err
	}

	src, closeSrc, err := h.open(filePath)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	raw, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", describeSource(filePath), err)
	}

	result := &ImportResult{
		Source: describeSource(filePath),
		Novels: distinctNovels(raw),
	}
	if len(raw) == 0 {
		return result, nil
	}

	summary, err := h.service.Import(ctx, raw, services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})
	if err != nil {
		return nil, err
	}

	result.Imported = summary.Imported
	result.Skipped = summary.Skipped
	result.Errors = summary.Errors
	return result, nil
}

func (h *ImportHandler) parserFor(filePath, format string) (parsers.Parser, error) {
	if format == "" || format == "auto" {
		if filePath == StdinPath {
			return nil, errors.New("reading from stdin requires --format")
		}
		if p := parsers.ForFile(filePath); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}
	if p := parsers.ForFormat(format); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func (h *ImportHandler) open(filePath string) (io.Reader, func(), error) {
	if filePath == StdinPath {
		return h.stdin, func() {}, nil
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func describeSource(filePath string) string {
	if filePath == StdinPath {
		return "stdin"
	}
	return filePath
}

func distinctNovels(raw []parsers.RawLore) []string {
	seen := make(map[string]struct{}, len(raw))
	novels := make([]string, 0)
	for _, r := range raw {
		if r.NovelID == "" {
			continue
		}
		if _, ok := seen[r.NovelID]; ok {
			continue
		}
		seen[r.NovelID] = struct{}{}
		novels = append(novels, r.NovelID)
	}
	sort.Strings(novels)
	return novels
}
