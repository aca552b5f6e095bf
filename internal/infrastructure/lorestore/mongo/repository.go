// Package mongo provides a MongoDB implementation of the lore store ports.
// Documents use the shape written by the reader's content pipeline:
//
//	{novel_id, entity_id, name, type, description_steps: [{min_chapter, content}]}
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

// loreDocument is the stored form of a lore entity.
type loreDocument struct {
	NovelID  string         `bson:"novel_id"`
	EntityID string         `bson:"entity_id"`
	Name     string         `bson:"name"`
	Type     string         `bson:"type,omitempty"`
	Steps    []stepDocument `bson:"description_steps"`
}

type stepDocument struct {
	MinChapter int    `bson:"min_chapter"`
	Content    string `bson:"content"`
}

// Repository implements ports.LoreStore, ports.LoreWriter and ports.LoreLister
// on a MongoDB collection.
type Repository struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, cfg config.MongoConfig) (*Repository, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: pinging mongo: %w", entities.ErrStoreUnavailable, err)
	}

	return &Repository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    timeout,
	}, nil
}

// Close disconnects the client.
func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// EnsureSchema creates the unique (novel_id, entity_id) index.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "novel_id", Value: 1}, {Key: "entity_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating lore index: %w", err)
	}
	return nil
}

// Drop removes the collection and its indexes.
func (r *Repository) Drop(ctx context.Context) error {
	if err := r.collection.Drop(ctx); err != nil {
		return fmt.Errorf("dropping lore collection: %w", err)
	}
	return nil
}

// Fetch returns the entity with its steps in stored order.
func (r *Repository) Fetch(ctx context.Context, novelID, entityID string) (*entities.LoreEntity, error) {
	var doc loreDocument
	err := r.collection.FindOne(ctx, entityFilter(novelID, entityID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("lore entity %s/%s: %w", novelID, entityID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: finding lore entity: %w", entities.ErrStoreUnavailable, err)
	}
	return toEntity(&doc), nil
}

// SaveEntity replaces the stored document, inserting it when absent.
func (r *Repository) SaveEntity(ctx context.Context, entity *entities.LoreEntity) error {
	_, err := r.collection.ReplaceOne(ctx,
		entityFilter(entity.NovelID, entity.EntityID),
		toDocument(entity),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving lore entity: %w", err)
	}
	return nil
}

// ListEntities lists entities for a novel ordered by entity id, without steps.
func (r *Repository) ListEntities(ctx context.Context, novelID string, limit, offset int) ([]*entities.LoreEntity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "entity_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "description_steps", Value: 0}})

	cursor, err := r.collection.Find(ctx, bson.D{{Key: "novel_id", Value: novelID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: listing lore entities: %w", entities.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []loreDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decoding lore entities: %w", entities.ErrStoreUnavailable, err)
	}

	result := make([]*entities.LoreEntity, 0, len(docs))
	for i := range docs {
		e := toEntity(&docs[i])
		e.Fragments = nil
		result = append(result, e)
	}
	return result, nil
}

// CountEntities returns the number of documents for a novel.
func (r *Repository) CountEntities(ctx context.Context, novelID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{{Key: "novel_id", Value: novelID}})
	if err != nil {
		return 0, fmt.Errorf("%w: counting lore entities: %w", entities.ErrStoreUnavailable, err)
	}
	return int(n), nil
}

func entityFilter(novelID, entityID string) bson.D {
	return bson.D{
		{Key: "novel_id", Value: novelID},
		{Key: "entity_id", Value: entityID},
	}
}

func toDocument(e *entities.LoreEntity) *loreDocument {
	steps := make([]stepDocument, 0, len(e.Fragments))
	for _, f := range e.Fragments {
		steps = append(steps, stepDocument{MinChapter: f.MinChapter, Content: f.Content})
	}
	return &loreDocument{
		NovelID:  e.NovelID,
		EntityID: e.EntityID,
		Name:     e.Name,
		Type:     e.Type,
		Steps:    steps,
	}
}

func toEntity(doc *loreDocument) *entities.LoreEntity {
	fragments := make([]entities.DisclosureFragment, 0, len(doc.Steps))
	for _, s := range doc.Steps {
		fragments = append(fragments, entities.DisclosureFragment{MinChapter: s.MinChapter, Content: s.Content})
	}
	return &entities.LoreEntity{
		NovelID:   doc.NovelID,
		EntityID:  doc.EntityID,
		Name:      doc.Name,
		Type:      doc.Type,
		Fragments: fragments,
	}
}
