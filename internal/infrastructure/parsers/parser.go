// Package parsers provides parsers for loading lore seed files in various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawLore represents a lore entity parsed from an external source before validation.
type RawLore struct {
	NovelID  string    `json:"novel_id" yaml:"novel_id"`
	EntityID string    `json:"entity_id" yaml:"entity_id"`
	Name     string    `json:"name" yaml:"name"`
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Steps    []RawStep `json:"description_steps" yaml:"description_steps"`
	LineNum  int       `json:"-" yaml:"-"` // Position in source file (set by parser)
}

// RawStep is a disclosure fragment as written in a seed file.
type RawStep struct {
	MinChapter *int   `json:"min_chapter" yaml:"min_chapter"` // Pointer to distinguish 0 from unset
	Content    string `json:"content" yaml:"content"`
}

// Parser defines the interface for parsing lore from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawLore, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv", "yaml".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	case "yaml", "yml":
		return &YAMLParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ForFormat(ext)
}
