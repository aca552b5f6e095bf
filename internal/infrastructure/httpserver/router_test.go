package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-reader/internal/application/handlers"
	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/mocks"
	"github.com/ersonp/lore-reader/internal/domain/services"
)

type fixture struct {
	store   *mocks.LoreStore
	cache   *mocks.Cache
	library *mocks.Library
	router  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: mocks.NewLoreStore(&entities.LoreEntity{
			NovelID:  "kurasu-de-nibanme",
			EntityID: "char_asanagi",
			Name:     "Asanagi Umi",
			Type:     "character",
			Fragments: []entities.DisclosureFragment{
				{MinChapter: 30, Content: "thirty"},
				{MinChapter: 1, Content: "one"},
				{MinChapter: 5, Content: "five"},
			},
		}),
		cache: mocks.NewCache(),
		library: &mocks.Library{
			Novels: []entities.Novel{{ID: "kurasu-de-nibanme", Title: "Kurasu De Nibanme", Path: "/lib/kurasu-de-nibanme"}},
			Chapters: map[string][]entities.ChapterRef{
				"kurasu-de-nibanme": {
					{ID: "chapter-1", Title: "Chapter 1", Number: 1},
					{ID: "chapter-2", Title: "Chapter 2", Number: 2},
				},
			},
			Contents: map[string]string{"kurasu-de-nibanme/chapter-1": "Chương 1"},
		},
	}
	f.router = NewRouter(RouterConfig{
		LoreHandler:    handlers.NewLoreHandler(services.NewLoreResolver(f.store, f.cache, 0, nil)),
		LibraryHandler: handlers.NewLibraryHandler(services.NewLibraryService(f.library)),
		CORSOrigins:    []string{"*"},
	})
	return f
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetLore(t *testing.T) {
	tests := []struct {
		name    string
		chapter string
		want    string
	}{
		{name: "before first reveal", chapter: "0", want: `{"entity_id":"char_asanagi","name":"Asanagi Umi","type":"character","visible_description":"","spoiler_free_steps":[]}`},
		{name: "first reveal", chapter: "1", want: `{"entity_id":"char_asanagi","name":"Asanagi Umi","type":"character","visible_description":"one","spoiler_free_steps":[{"min_chapter":1,"content":"one"}]}`},
		{name: "mid story", chapter: "10", want: `{"entity_id":"char_asanagi","name":"Asanagi Umi","type":"character","visible_description":"one\n\nfive","spoiler_free_steps":[{"min_chapter":1,"content":"one"},{"min_chapter":5,"content":"five"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.get(t, "/api/novel/kurasu-de-nibanme/lore/char_asanagi?chapter="+tt.chapter)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestGetLore_InvalidChapter(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: "/api/novel/kurasu-de-nibanme/lore/char_asanagi"},
		{name: "not a number", path: "/api/novel/kurasu-de-nibanme/lore/char_asanagi?chapter=ten"},
		{name: "negative", path: "/api/novel/kurasu-de-nibanme/lore/char_asanagi?chapter=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.get(t, tt.path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_input", decodeError(t, rec).Code)
			assert.Equal(t, 0, f.store.FetchCalls())
			gets, sets := f.cache.Calls()
			assert.Zero(t, gets)
			assert.Zero(t, sets)
		})
	}
}

func TestGetLore_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/lore/char_missing?chapter=3")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
	assert.Equal(t, 0, f.cache.Keys())
}

func TestGetLore_StoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.store.Err = errors.Join(entities.ErrStoreUnavailable, errors.New("connection refused"))

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/lore/char_asanagi?chapter=3")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, retryAfterSeconds, rec.Header().Get("Retry-After"))
	apiErr := decodeError(t, rec)
	assert.Equal(t, "store_unavailable", apiErr.Code)
	assert.NotContains(t, apiErr.Message, "connection refused")
}

func TestGetLore_InternalError(t *testing.T) {
	f := newFixture(t)
	f.store.Err = errors.New("boom")

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/lore/char_asanagi?chapter=3")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec).Message)
}

func TestGetLibrary(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/library")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"kurasu-de-nibanme","title":"Kurasu De Nibanme","path":"/lib/kurasu-de-nibanme"}]`, rec.Body.String())
}

func TestGetChapters(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/chapters")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"chapter-1","title":"Chapter 1"},{"id":"chapter-2","title":"Chapter 2"}]`, rec.Body.String())
}

func TestGetChapters_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/novel/missing/chapters")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Novel chapters not found", decodeError(t, rec).Message)
}

func TestGetChapter(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/chapter-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"chapter-1","content":"Chương 1"}`, rec.Body.String())
}

func TestGetChapter_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/chapter-99")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Chapter not found", decodeError(t, rec).Message)
}

func TestGetChapter_RejectsTraversal(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/novel/kurasu-de-nibanme/..%5Csecret")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/library", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
