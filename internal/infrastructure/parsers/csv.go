package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVParser parses lore from CSV format, one fragment per row.
// Expected columns: novel_id, entity_id, name, type, min_chapter, content.
// Rows for the same (novel_id, entity_id) are merged into one entity, keeping
// row order for its fragments.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed entities.
func (p *CSVParser) Parse(r io.Reader) ([]RawLore, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	requiredCols := []string{"novel_id", "entity_id", "min_chapter", "content"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and groups them into entities.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawLore, error) {
	lore := []RawLore{}
	byKey := make(map[string]int)
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		step, err := p.parseStep(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}

		novelID := getColumn(record, colIndex, "novel_id")
		entityID := getColumn(record, colIndex, "entity_id")
		key := novelID + "\x00" + entityID

		idx, ok := byKey[key]
		if !ok {
			lore = append(lore, RawLore{
				NovelID:  novelID,
				EntityID: entityID,
				LineNum:  lineNum,
			})
			idx = len(lore) - 1
			byKey[key] = idx
		}

		entry := &lore[idx]
		if entry.Name == "" {
			entry.Name = getColumn(record, colIndex, "name")
		}
		if entry.Type == "" {
			entry.Type = getColumn(record, colIndex, "type")
		}
		entry.Steps = append(entry.Steps, step)
	}

	return lore, nil
}

// parseStep converts the fragment columns of a CSV record to a RawStep.
func (p *CSVParser) parseStep(record []string, colIndex map[string]int, lineNum int) (RawStep, error) {
	step := RawStep{Content: getColumn(record, colIndex, "content")}

	minStr := strings.TrimSpace(getColumn(record, colIndex, "min_chapter"))
	if minStr != "" {
		minChapter, err := strconv.Atoi(minStr)
		if err != nil {
			return RawStep{}, fmt.Errorf("line %d: invalid min_chapter value %q: %w", lineNum, minStr, err)
		}
		step.MinChapter = &minChapter
	}

	return step, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
