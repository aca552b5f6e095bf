package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

func TestDocumentRoundTrip_PreservesStepOrder(t *testing.T) {
	entity := &entities.LoreEntity{
		NovelID:  "kurasu-de-nibanme",
		EntityID: "char_asanagi",
		Name:     "Asanagi Umi",
		Type:     "character",
		Fragments: []entities.DisclosureFragment{
			{MinChapter: 30, Content: "c"},
			{MinChapter: 1, Content: "a"},
			{MinChapter: 5, Content: "b"},
		},
	}

	raw, err := bson.Marshal(toDocument(entity))
	require.NoError(t, err)

	var doc loreDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, entity, toEntity(&doc))
}

func TestDocumentDecode_StoredShape(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"novel_id":  "n",
		"entity_id": "loc_school",
		"name":      "School",
		"description_steps": bson.A{
			bson.M{"min_chapter": 2, "content": "gate"},
		},
	})
	require.NoError(t, err)

	var doc loreDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	got := toEntity(&doc)
	assert.Empty(t, got.Type)
	assert.Equal(t, []entities.DisclosureFragment{{MinChapter: 2, Content: "gate"}}, got.Fragments)
}

func TestToEntity_MissingStepsIsEmpty(t *testing.T) {
	got := toEntity(&loreDocument{NovelID: "n", EntityID: "e", Name: "E"})
	assert.NotNil(t, got.Fragments)
	assert.Empty(t, got.Fragments)
}

func TestNewRepository_RequiresURI(t *testing.T) {
	_, err := NewRepository(context.Background(), config.MongoConfig{})
	require.Error(t, err)
}

// unreachableRepo points at a port nothing listens on. mongo.Connect is lazy,
// so every operation fails at server selection.
func unreachableRepo(t *testing.T) *Repository {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1/?connect=direct").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return &Repository{
		client:     client,
		collection: client.Database("shonovel_db").Collection("lore"),
		timeout:    time.Second,
	}
}

func TestRepository_Unreachable_IsStoreUnavailable(t *testing.T) {
	repo := unreachableRepo(t)
	ctx := context.Background()

	_, err := repo.Fetch(ctx, "n", "e")
	assert.ErrorIs(t, err, entities.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, entities.ErrNotFound)

	_, err = repo.ListEntities(ctx, "n", 10, 0)
	assert.ErrorIs(t, err, entities.ErrStoreUnavailable)

	_, err = repo.CountEntities(ctx, "n")
	assert.ErrorIs(t, err, entities.ErrStoreUnavailable)
}
