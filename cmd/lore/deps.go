package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ersonp/lore-reader/internal/application/handlers"
	"github.com/ersonp/lore-reader/internal/domain/ports"
	"github.com/ersonp/lore-reader/internal/domain/services"
	"github.com/ersonp/lore-reader/internal/infrastructure/cache/noop"
	rediscache "github.com/ersonp/lore-reader/internal/infrastructure/cache/redis"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
	"github.com/ersonp/lore-reader/internal/infrastructure/library/filesystem"
	"github.com/ersonp/lore-reader/internal/infrastructure/lorestore/mongo"
	"github.com/ersonp/lore-reader/internal/infrastructure/lorestore/qdrant"
	"github.com/ersonp/lore-reader/internal/infrastructure/lorestore/sqlite"
	"github.com/ersonp/lore-reader/internal/pkg/logger"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	Log            *logger.Logger
	LoreHandler    *handlers.LoreHandler
	EntityHandler  *handlers.EntityHandler
	ImportHandler  *handlers.ImportHandler
	LibraryHandler *handlers.LibraryHandler
}

// loreBackend is what every lore store implementation provides.
type loreBackend interface {
	ports.LoreStore
	ports.LoreWriter
	ports.LoreLister
	ports.SchemaManager
	Close() error
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store loreBackend
	cache ports.Cache
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need direct store access.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) (err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd, globalConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening %s lore store: %w", cfg.Store.Backend, err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("closing lore store failed", "error", cerr)
		}
	}()

	// Ensure schema exists
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring store schema: %w", err)
	}

	cache, closeCache, err := openCache(ctx, cfg.Cache, log)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer closeCache()

	resolver := services.NewLoreResolver(store, cache, cfg.Cache.TTL, log)
	library := filesystem.NewLibrary(cfg.Library)

	deps := &internalDeps{
		Deps: Deps{
			Config:         cfg,
			Log:            log,
			LoreHandler:    handlers.NewLoreHandler(resolver),
			EntityHandler:  handlers.NewEntityHandler(services.NewEntityService(store)),
			ImportHandler:  handlers.NewImportHandler(services.NewImportService(store, store)),
			LibraryHandler: handlers.NewLibraryHandler(services.NewLibraryService(library)),
		},
		store: store,
		cache: cache,
	}

	return fn(deps)
}

// withStore provides direct store access for commands that need it.
func withStore(ctx context.Context, fn func(loreBackend) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(d.store)
	})
}

// openStore connects to the configured lore store backend.
func openStore(ctx context.Context, cfg config.StoreConfig) (loreBackend, error) {
	switch cfg.Backend {
	case config.StoreMongo:
		repo, err := mongo.NewRepository(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StoreQdrant:
		repo, err := qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StoreSQLite, "":
		repo, err := sqlite.NewRepository(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// openCache connects to the configured cache. A Redis cache that cannot be
// reached is replaced by the no-op cache so the reader keeps serving.
func openCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (ports.Cache, func(), error) {
	switch cfg.Backend {
	case config.CacheRedis:
		c, err := rediscache.NewCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", "addr", cfg.Redis.Addr, "error", err)
			return noop.NewCache(), func() {}, nil
		}
		return c, func() { _ = c.Close() }, nil
	case config.CacheNone, "":
		return noop.NewCache(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown cache backend " + cfg.Backend)
	}
}
