package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawLore
	}{
		{
			name: "single entity",
			input: `[{"novel_id": "kurasu-de-nibanme", "entity_id": "char_maehara", "name": "Maehara Maki",
				"type": "character", "description_steps": [{"min_chapter": 3, "content": "secret friend"}]}]`,
			expected: []RawLore{
				{
					NovelID:  "kurasu-de-nibanme",
					EntityID: "char_maehara",
					Name:     "Maehara Maki",
					Type:     "character",
					Steps:    []RawStep{{MinChapter: intPtr(3), Content: "secret friend"}},
					LineNum:  1,
				},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawLore{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_MissingMinChapter(t *testing.T) {
	parser := &JSONParser{}
	result, err := parser.Parse(strings.NewReader(`[{"entity_id": "x", "description_steps": [{"content": "c"}]}]`))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Steps[0].MinChapter)
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	parser := &JSONParser{}
	_, err := parser.Parse(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestYAMLParser_Parse(t *testing.T) {
	input := `
- novel_id: kurasu-de-nibanme
  entity_id: char_asanagi
  name: Asanagi Umi
  type: character
  description_steps:
    - min_chapter: 1
      content: first
    - min_chapter: 0
      content: prologue
- novel_id: kurasu-de-nibanme
  entity_id: loc_home
  name: Maehara home
  description_steps: []
`
	parser := &YAMLParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "char_asanagi", result[0].EntityID)
	assert.Equal(t, 2, result[0].LineNum)
	require.Len(t, result[0].Steps, 2)
	assert.Equal(t, 1, *result[0].Steps[0].MinChapter)
	assert.Equal(t, 0, *result[0].Steps[1].MinChapter)
	assert.Equal(t, "prologue", result[0].Steps[1].Content)

	assert.Equal(t, "loc_home", result[1].EntityID)
	assert.Empty(t, result[1].Type)
	assert.Empty(t, result[1].Steps)
}

func TestYAMLParser_Parse_Empty(t *testing.T) {
	parser := &YAMLParser{}
	result, err := parser.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestYAMLParser_Parse_NotAList(t *testing.T) {
	parser := &YAMLParser{}
	_, err := parser.Parse(strings.NewReader("novel_id: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a list")
}

func TestCSVParser_Parse_GroupsRows(t *testing.T) {
	input := "novel_id,entity_id,name,type,min_chapter,content\n" +
		"kurasu,char_asanagi,Asanagi Umi,character,30,late\n" +
		"kurasu,char_maehara,Maehara Maki,character,1,loner\n" +
		"kurasu,char_asanagi,,,1,early\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	asanagi := result[0]
	assert.Equal(t, "char_asanagi", asanagi.EntityID)
	assert.Equal(t, "Asanagi Umi", asanagi.Name)
	assert.Equal(t, "character", asanagi.Type)
	assert.Equal(t, 2, asanagi.LineNum)
	require.Len(t, asanagi.Steps, 2)
	assert.Equal(t, 30, *asanagi.Steps[0].MinChapter)
	assert.Equal(t, "late", asanagi.Steps[0].Content)
	assert.Equal(t, 1, *asanagi.Steps[1].MinChapter)

	assert.Equal(t, "char_maehara", result[1].EntityID)
	assert.Equal(t, 3, result[1].LineNum)
}

func TestCSVParser_Parse_MissingColumn(t *testing.T) {
	parser := &CSVParser{}
	_, err := parser.Parse(strings.NewReader("novel_id,entity_id,content\nk,e,c\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_chapter")
}

func TestCSVParser_Parse_InvalidMinChapter(t *testing.T) {
	parser := &CSVParser{}
	_, err := parser.Parse(strings.NewReader("novel_id,entity_id,min_chapter,content\nk,e,five,c\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("JSON"))
	assert.IsType(t, &CSVParser{}, ForFormat("csv"))
	assert.IsType(t, &YAMLParser{}, ForFormat("yml"))
	assert.Nil(t, ForFormat("xml"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("seed/lore.json"))
	assert.IsType(t, &CSVParser{}, ForFile("lore.CSV"))
	assert.IsType(t, &YAMLParser{}, ForFile("lore.yaml"))
	assert.Nil(t, ForFile("lore.txt"))
	assert.Nil(t, ForFile("lore"))
}
