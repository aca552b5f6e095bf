package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses lore from a JSON array of entity documents, the same
// shape the document store keeps.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed entities.
func (p *JSONParser) Parse(r io.Reader) ([]RawLore, error) {
	var lore []RawLore

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&lore); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set positions (array index + 1, 1-indexed)
	for i := range lore {
		lore[i].LineNum = i + 1
	}

	return lore, nil
}
