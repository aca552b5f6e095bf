package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/ports"
	"github.com/ersonp/lore-reader/internal/pkg/logger"
)

// DefaultLoreTTL bounds how long a resolved view may be served from cache.
const DefaultLoreTTL = time.Hour

// LoreResolver computes spoiler-free lore views with a cache-aside read path.
// It holds no mutable state and is safe for concurrent use.
type LoreResolver struct {
	store  ports.LoreStore
	cache  ports.Cache
	ttl    time.Duration
	log    *logger.Logger
	tracer trace.Tracer
}

// NewLoreResolver creates a resolver. A ttl <= 0 selects DefaultLoreTTL.
func NewLoreResolver(store ports.LoreStore, cache ports.Cache, ttl time.Duration, log *logger.Logger) *LoreResolver {
	if ttl <= 0 {
		ttl = DefaultLoreTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &LoreResolver{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		log:    log.With("service", "LoreResolver"),
		tracer: otel.Tracer("github.com/ersonp/lore-reader/resolver"),
	}
}

// Resolve returns the view of an entity visible at currentChapter.
//
// Errors wrap entities.ErrInvalidInput, entities.ErrNotFound or
// entities.ErrStoreUnavailable. Cache failures are never returned.
func (r *LoreResolver) Resolve(ctx context.Context, novelID, entityID string, currentChapter int) (*entities.VisibleLoreView, error) {
	novelID = entities.NormalizeID(novelID)
	entityID = entities.NormalizeID(entityID)
	if err := validateResolveInput(novelID, entityID, currentChapter); err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "LoreResolver.Resolve",
		trace.WithAttributes(
			attribute.String("lore.novel_id", novelID),
			attribute.String("lore.entity_id", entityID),
			attribute.Int("lore.current_chapter", currentChapter),
		),
	)
	defer span.End()

	key := LoreCacheKey(novelID, entityID, currentChapter)

	if view, ok := r.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return view, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	entity, err := r.store.Fetch(ctx, novelID, entityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, fmt.Errorf("fetching lore entity: %w", err)
	}

	view := Disclose(entity, currentChapter)
	span.SetAttributes(attribute.Int("lore.visible_steps", len(view.SpoilerFreeSteps)))

	r.remember(ctx, key, view)
	return view, nil
}

func validateResolveInput(novelID, entityID string, currentChapter int) error {
	if novelID == "" {
		return fmt.Errorf("novel id is required: %w", entities.ErrInvalidInput)
	}
	if entityID == "" {
		return fmt.Errorf("entity id is required: %w", entities.ErrInvalidInput)
	}
	if currentChapter < 0 {
		return fmt.Errorf("current chapter must be non-negative, got %d: %w", currentChapter, entities.ErrInvalidInput)
	}
	return nil
}

// lookup reads a cached view. Any failure, including an entry that no longer
// decodes, counts as a miss.
func (r *LoreResolver) lookup(ctx context.Context, key string) (*entities.VisibleLoreView, bool) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, entities.ErrCacheMiss) {
			r.log.Warn("cache read failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}

	var view entities.VisibleLoreView
	if err := json.Unmarshal(data, &view); err != nil {
		r.log.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	if view.SpoilerFreeSteps == nil {
		view.SpoilerFreeSteps = []entities.DisclosureFragment{}
	}
	return &view, true
}

// remember stores a view. Failures are logged and dropped.
func (r *LoreResolver) remember(ctx context.Context, key string, view *entities.VisibleLoreView) {
	data, err := json.Marshal(view)
	if err != nil {
		r.log.Warn("encoding lore view for cache", "key", key, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.log.Warn("cache write failed", "key", key, "error", err)
	}
}
