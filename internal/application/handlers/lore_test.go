package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/mocks"
	"github.com/ersonp/lore-reader/internal/domain/services"
)

func TestLoreHandler_HandleResolve(t *testing.T) {
	store := mocks.NewLoreStore(&entities.LoreEntity{
		NovelID:  "n",
		EntityID: "char_asanagi",
		Name:     "Asanagi Umi",
		Fragments: []entities.DisclosureFragment{
			{MinChapter: 5, Content: "b"},
			{MinChapter: 1, Content: "a"},
		},
	})
	handler := NewLoreHandler(services.NewLoreResolver(store, mocks.NewCache(), 0, nil))

	view, err := handler.HandleResolve(t.Context(), "n", "char_asanagi", 5)

	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", view.VisibleDescription)
	assert.Equal(t, entities.TypeUnknown, view.Type)
}

func TestLoreHandler_HandleResolve_NegativeChapter(t *testing.T) {
	store := mocks.NewLoreStore()
	handler := NewLoreHandler(services.NewLoreResolver(store, mocks.NewCache(), 0, nil))

	_, err := handler.HandleResolve(t.Context(), "n", "e", -1)

	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Equal(t, 0, store.FetchCalls())
}

func TestEntityHandler_HandleList(t *testing.T) {
	store := mocks.NewLoreStore(
		&entities.LoreEntity{NovelID: "n", EntityID: "b", Name: "B"},
		&entities.LoreEntity{NovelID: "n", EntityID: "a", Name: "A"},
		&entities.LoreEntity{NovelID: "n", EntityID: "c", Name: "C"},
	)
	handler := NewEntityHandler(services.NewEntityService(store))

	result, err := handler.HandleList(t.Context(), "n", 2, 0)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, "a", result.Entities[0].EntityID)
}

func TestEntityHandler_HandleList_StoreError(t *testing.T) {
	store := mocks.NewLoreStore()
	store.Err = entities.ErrStoreUnavailable
	handler := NewEntityHandler(services.NewEntityService(store))

	_, err := handler.HandleList(t.Context(), "n", 10, 0)

	assert.ErrorIs(t, err, entities.ErrStoreUnavailable)
}

func TestLibraryHandler(t *testing.T) {
	lib := &mocks.Library{
		Novels: []entities.Novel{{ID: "n", Title: "N", Path: "/lib/n"}},
		Chapters: map[string][]entities.ChapterRef{
			"n": {{ID: "chapter-1", Title: "Chapter 1", Number: 1}},
		},
		Contents: map[string]string{"n/chapter-1": "text"},
	}
	handler := NewLibraryHandler(services.NewLibraryService(lib))

	novels, err := handler.HandleNovels(t.Context())
	require.NoError(t, err)
	assert.Len(t, novels, 1)

	chapters, err := handler.HandleChapters(t.Context(), "n")
	require.NoError(t, err)
	assert.Equal(t, "chapter-1", chapters[0].ID)

	chapter, err := handler.HandleChapter(t.Context(), "n", "chapter-1")
	require.NoError(t, err)
	assert.Equal(t, "text", chapter.Content)

	_, err = handler.HandleChapter(t.Context(), "n", "../secrets")
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}
