package handlers

import (
	"context"
	"os"
	"strings"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/mocks"
	"github.com/ersonp/lore-reader/internal/domain/services"
)

func newImportHandler(store *mocks.LoreStore) *ImportHandler {
	return NewImportHandler(services.NewImportService(store, store))
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportHandler_Handle_JSONFile(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	file := writeTemp(t, "lore.json", `[{"novel_id": "n", "entity_id": "char_asanagi", "name": "Asanagi Umi", "type": "character",
		"description_steps": [{"min_chapter": 5, "content": "b"}, {"min_chapter": 1, "content": "a"}]}]`)

	result, err := handler.Handle(context.Background(), file, ImportOptions{
		OnConflict: services.ConflictOverwrite,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"n"}, result.Novels)
	assert.Equal(t, file, result.Source)

	saved, err := store.Fetch(context.Background(), "n", "char_asanagi")
	require.NoError(t, err)
	assert.Equal(t, []entities.DisclosureFragment{
		{MinChapter: 5, Content: "b"},
		{MinChapter: 1, Content: "a"},
	}, saved.Fragments, "storage order is kept")
}

func TestImportHandler_Handle_CSVFile(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	file := writeTemp(t, "lore.csv", "novel_id,entity_id,name,type,min_chapter,content\n"+
		"n,char_asanagi,Asanagi Umi,character,1,a\n"+
		"n,char_asanagi,Asanagi Umi,character,5,b\n")

	result, err := handler.Handle(context.Background(), file, ImportOptions{
		OnConflict: services.ConflictOverwrite,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_YAMLFile(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	file := writeTemp(t, "lore.yaml", `
- novel_id: n
  entity_id: loc_school
  name: School
  description_steps:
    - min_chapter: 0
      content: gate
`)

	result, err := handler.Handle(context.Background(), file, ImportOptions{Format: "auto"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_ExplicitFormat(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	// .txt extension with JSON content
	file := writeTemp(t, "lore.txt", `[{"novel_id": "n", "entity_id": "e", "name": "E", "description_steps": []}]`)

	result, err := handler.Handle(context.Background(), file, ImportOptions{
		Format:     "json",
		OnConflict: services.ConflictOverwrite,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_DryRun(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	file := writeTemp(t, "lore.json", `[{"novel_id": "n", "entity_id": "e", "name": "E", "description_steps": []}]`)

	result, err := handler.Handle(context.Background(), file, ImportOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, store.SaveCallCount)
}

func TestImportHandler_Handle_UnsupportedFormat(t *testing.T) {
	handler := newImportHandler(mocks.NewLoreStore())

	file := writeTemp(t, "lore.xml", "<data/>")

	_, err := handler.Handle(context.Background(), file, ImportOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestImportHandler_Handle_FileNotFound(t *testing.T) {
	handler := newImportHandler(mocks.NewLoreStore())

	_, err := handler.Handle(context.Background(), filepath.Join(t.TempDir(), "missing.json"), ImportOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening file")
}

func TestImportHandler_Handle_EmptyFile(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	file := writeTemp(t, "lore.json", `[]`)

	result, err := handler.Handle(context.Background(), file, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, store.SaveCallCount)
}

func TestImportHandler_Handle_ValidationErrors(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store)

	file := writeTemp(t, "lore.json", `[
		{"novel_id": "n", "entity_id": "e", "name": "", "description_steps": []},
		{"novel_id": "n", "entity_id": "ok", "name": "OK", "description_steps": [{"min_chapter": 0, "content": "x"}]}
	]`)

	result, err := handler.Handle(context.Background(), file, ImportOptions{OnConflict: services.ConflictOverwrite})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Line)
}

func TestImportHandler_Handle_Stdin(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := newImportHandler(store).WithStdin(strings.NewReader(`[
		{"novel_id": "b-novel", "entity_id": "e1", "name": "E1", "description_steps": []},
		{"novel_id": "a-novel", "entity_id": "e2", "name": "E2", "description_steps": []},
		{"novel_id": "b-novel", "entity_id": "e3", "name": "E3", "description_steps": []}
	]`))

	result, err := handler.Handle(context.Background(), StdinPath, ImportOptions{
		Format:     "json",
		OnConflict: services.ConflictOverwrite,
	})

	require.NoError(t, err)
	assert.Equal(t, "stdin", result.Source)
	assert.Equal(t, []string{"a-novel", "b-novel"}, result.Novels)
	assert.Equal(t, 3, result.Imported)
}

func TestImportHandler_Handle_StdinNeedsFormat(t *testing.T) {
	handler := newImportHandler(mocks.NewLoreStore()).WithStdin(strings.NewReader("[]"))

	_, err := handler.Handle(context.Background(), StdinPath, ImportOptions{Format: "auto"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --format")
}

func TestImportHandler_Handle_UnknownExplicitFormat(t *testing.T) {
	handler := newImportHandler(mocks.NewLoreStore())

	_, err := handler.Handle(context.Background(), writeTemp(t, "lore.json", "[]"), ImportOptions{Format: "toml"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "toml"`)
}
