package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/ports"
	"github.com/ersonp/lore-reader/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle entities that already exist during import.
type ConflictStrategy string

const (
	// ConflictSkip leaves existing entities untouched.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing entities and all their fragments.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing entities
}

// ImportError represents an error for a specific entity during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// ImportService seeds lore entities into the store.
type ImportService struct {
	store  ports.LoreStore
	writer ports.LoreWriter
}

// NewImportService creates a new import service.
func NewImportService(store ports.LoreStore, writer ports.LoreWriter) *ImportService {
	return &ImportService{
		store:  store,
		writer: writer,
	}
}

// Import validates and saves raw lore entries.
func (s *ImportService) Import(ctx context.Context, raw []parsers.RawLore, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	valid, validationErrors := validateRawLore(raw)
	result.Errors = validationErrors

	if len(valid) == 0 {
		return result, nil
	}

	lore := convertToEntities(valid)

	if opts.DryRun {
		result.Imported = len(lore)
		return result, nil
	}

	for _, e := range lore {
		if opts.OnConflict == ConflictSkip {
			exists, err := s.exists(ctx, e)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Skipped++
				continue
			}
		}

		if err := s.writer.SaveEntity(ctx, e); err != nil {
			return nil, fmt.Errorf("saving lore entity %s: %w", e.Key(), err)
		}
		result.Imported++
	}

	return result, nil
}

func (s *ImportService) exists(ctx context.Context, e *entities.LoreEntity) (bool, error) {
	_, err := s.store.Fetch(ctx, e.NovelID, e.EntityID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, entities.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("checking lore entity %s: %w", e.Key(), err)
	}
}

// validateRawLore validates raw entries and returns valid ones with any errors.
// An entity that appears twice in the same batch is reported on its second
// occurrence.
func validateRawLore(raw []parsers.RawLore) ([]parsers.RawLore, []ImportError) {
	valid := make([]parsers.RawLore, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	var errs []ImportError

	for i := range raw {
		r := &raw[i]
		lineNum := r.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		if err := validateRawEntry(r, lineNum); err != nil {
			errs = append(errs, *err)
			continue
		}

		key := entities.NormalizeID(r.NovelID) + "/" + entities.NormalizeID(r.EntityID)
		if seen[key] {
			errs = append(errs, ImportError{
				Line:    lineNum,
				Field:   "entity_id",
				Value:   r.EntityID,
				Message: fmt.Sprintf("duplicate entity %q in novel %q", r.EntityID, r.NovelID),
			})
			continue
		}
		seen[key] = true

		valid = append(valid, *r)
	}

	return valid, errs
}

// validateRawEntry validates a single raw entry and returns an error if invalid.
func validateRawEntry(r *parsers.RawLore, lineNum int) *ImportError {
	if entities.NormalizeID(r.NovelID) == "" {
		return &ImportError{Line: lineNum, Field: "novel_id", Message: "missing required field: novel_id"}
	}
	if entities.NormalizeID(r.EntityID) == "" {
		return &ImportError{Line: lineNum, Field: "entity_id", Message: "missing required field: entity_id"}
	}
	if r.Name == "" {
		return &ImportError{Line: lineNum, Field: "name", Message: "missing required field: name"}
	}

	for i, step := range r.Steps {
		if step.MinChapter == nil {
			return &ImportError{
				Line:    lineNum,
				Field:   "min_chapter",
				Message: fmt.Sprintf("description step %d: missing required field: min_chapter", i+1),
			}
		}
		if *step.MinChapter < 0 {
			return &ImportError{
				Line:    lineNum,
				Field:   "min_chapter",
				Value:   fmt.Sprintf("%d", *step.MinChapter),
				Message: fmt.Sprintf("description step %d: min_chapter must be non-negative", i+1),
			}
		}
	}

	return nil
}

// convertToEntities converts raw entries to domain entities, keeping step order.
func convertToEntities(raw []parsers.RawLore) []*entities.LoreEntity {
	lore := make([]*entities.LoreEntity, 0, len(raw))

	for i := range raw {
		r := &raw[i]
		fragments := make([]entities.DisclosureFragment, 0, len(r.Steps))
		for _, step := range r.Steps {
			fragments = append(fragments, entities.DisclosureFragment{
				MinChapter: *step.MinChapter,
				Content:    step.Content,
			})
		}

		lore = append(lore, &entities.LoreEntity{
			NovelID:   entities.NormalizeID(r.NovelID),
			EntityID:  entities.NormalizeID(r.EntityID),
			Name:      r.Name,
			Type:      r.Type,
			Fragments: fragments,
		})
	}

	return lore
}
