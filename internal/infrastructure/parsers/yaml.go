package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses lore from a YAML sequence of entity documents.
type YAMLParser struct{}

// Parse reads YAML from the reader and returns parsed entities.
// Line numbers point at the start of each entity in the source.
func (p *YAMLParser) Parse(r io.Reader) ([]RawLore, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return []RawLore{}, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if len(root.Content) == 0 {
		return []RawLore{}, nil
	}
	seq := root.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parsing YAML: expected a list of entities at line %d", seq.Line)
	}

	lore := make([]RawLore, 0, len(seq.Content))
	for _, node := range seq.Content {
		var raw RawLore
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		raw.LineNum = node.Line
		lore = append(lore, raw)
	}

	return lore, nil
}
