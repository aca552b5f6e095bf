// Package qdrant provides a Qdrant implementation of the lore store ports.
// Each entity is one payload-carrying point whose id is derived from the
// entity's composite key, so no search vector is ever consulted.
package qdrant

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

// Points carry a one-dimensional placeholder vector; lookups are by id only.
const vectorSize = 1

// scrollPage is the page size used when walking a novel's points.
const scrollPage = 256

// Repository implements ports.LoreStore, ports.LoreWriter and ports.LoreLister
// using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureSchema creates the collection if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Dot,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection drops the collection and every point in it.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// PointID returns the deterministic point id for an entity.
func PointID(novelID, entityID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("lore:"+novelID+"/"+entityID)).String()
}

// Fetch retrieves an entity by its composite key.
func (r *Repository) Fetch(ctx context.Context, novelID, entityID string) (*entities.LoreEntity, error) {
	resp, err := r.points.Get(ctx, &pb.GetPoints{
		CollectionName: r.collection,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(novelID, entityID)}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
		},
	})
	if err != nil {
		// A missing collection also answers NotFound; that is a store fault,
		// not a missing entity.
		return nil, fmt.Errorf("%w: getting point: %w", entities.ErrStoreUnavailable, err)
	}

	// Unknown point ids come back as an empty result.
	if len(resp.Result) == 0 {
		return nil, fmt.Errorf("lore entity %s/%s: %w", novelID, entityID, entities.ErrNotFound)
	}

	return payloadToEntity(resp.Result[0].Payload), nil
}

// SaveEntity upserts the entity's point.
func (r *Repository) SaveEntity(ctx context.Context, entity *entities.LoreEntity) error {
	point := &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{
				Uuid: PointID(entity.NovelID, entity.EntityID),
			},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{
					Data: []float32{1},
				},
			},
		},
		Payload: entityToPayload(entity),
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         []*pb.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %w", err)
	}

	return nil
}

// ListEntities returns a novel's entities ordered by entity id, without
// fragments. Qdrant scrolls in point-id order, so the novel's points are
// collected and sorted before paging.
func (r *Repository) ListEntities(ctx context.Context, novelID string, limit, offset int) ([]*entities.LoreEntity, error) {
	var all []*entities.LoreEntity
	var next *pb.PointId

	for {
		resp, err := r.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: r.collection,
			Limit:          pb.PtrOf(uint32(scrollPage)),
			Offset:         next,
			Filter:         novelFilter(novelID),
			WithPayload: &pb.WithPayloadSelector{
				SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
			},
			WithVectors: &pb.WithVectorsSelector{
				SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scrolling points: %w", entities.ErrStoreUnavailable, err)
		}

		for _, point := range resp.Result {
			e := payloadToEntity(point.Payload)
			e.Fragments = nil
			all = append(all, e)
		}

		next = resp.NextPageOffset
		if next == nil {
			break
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].EntityID < all[j].EntityID
	})

	if offset >= len(all) {
		return []*entities.LoreEntity{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// CountEntities returns the exact number of points for a novel.
func (r *Repository) CountEntities(ctx context.Context, novelID string) (int, error) {
	resp, err := r.points.Count(ctx, &pb.CountPoints{
		CollectionName: r.collection,
		Filter:         novelFilter(novelID),
		Exact:          pb.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting points: %w", entities.ErrStoreUnavailable, err)
	}
	return int(resp.Result.GetCount()), nil
}

func novelFilter(novelID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "novel_id",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{
								Keyword: novelID,
							},
						},
					},
				},
			},
		},
	}
}

// entityToPayload encodes an entity using the stored document field names.
func entityToPayload(e *entities.LoreEntity) map[string]*pb.Value {
	steps := make([]*pb.Value, 0, len(e.Fragments))
	for _, f := range e.Fragments {
		steps = append(steps, &pb.Value{Kind: &pb.Value_StructValue{StructValue: &pb.Struct{
			Fields: map[string]*pb.Value{
				"min_chapter": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(f.MinChapter)}},
				"content":     {Kind: &pb.Value_StringValue{StringValue: f.Content}},
			},
		}}})
	}

	return map[string]*pb.Value{
		"novel_id":          {Kind: &pb.Value_StringValue{StringValue: e.NovelID}},
		"entity_id":         {Kind: &pb.Value_StringValue{StringValue: e.EntityID}},
		"name":              {Kind: &pb.Value_StringValue{StringValue: e.Name}},
		"type":              {Kind: &pb.Value_StringValue{StringValue: e.Type}},
		"description_steps": {Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: steps}}},
	}
}

// payloadToEntity decodes a point payload, keeping step order.
func payloadToEntity(payload map[string]*pb.Value) *entities.LoreEntity {
	entity := &entities.LoreEntity{
		NovelID:   getStringValue(payload, "novel_id"),
		EntityID:  getStringValue(payload, "entity_id"),
		Name:      getStringValue(payload, "name"),
		Type:      getStringValue(payload, "type"),
		Fragments: []entities.DisclosureFragment{},
	}

	v, ok := payload["description_steps"]
	if !ok {
		return entity
	}
	for _, step := range v.GetListValue().GetValues() {
		fields := step.GetStructValue().GetFields()
		entity.Fragments = append(entity.Fragments, entities.DisclosureFragment{
			MinChapter: int(getIntValue(fields, "min_chapter")),
			Content:    getStringValue(fields, "content"),
		})
	}
	return entity
}

// Helper functions for payload extraction.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func getIntValue(payload map[string]*pb.Value, key string) int64 {
	if v, ok := payload[key]; ok {
		if i, isInt := v.GetKind().(*pb.Value_IntegerValue); isInt {
			return i.IntegerValue
		}
		return int64(v.GetDoubleValue())
	}
	return 0
}
