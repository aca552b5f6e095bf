// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/lore-reader/internal/domain/ports"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

// InitHandler creates the .lore directory and its default configuration.
type InitHandler struct{}

// NewInitHandler creates a new init handler.
func NewInitHandler() *InitHandler {
	return &InitHandler{}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	Config     *config.Config
}

// InitOptions picks backends for the generated config. Empty fields keep the
// commented default file.
type InitOptions struct {
	StoreBackend string
	CacheBackend string
}

// Handle writes a config under basePath and loads it back.
func (h *InitHandler) Handle(basePath string, opts InitOptions) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("lore already initialized in %s", basePath)
	}

	if opts.StoreBackend == "" && opts.CacheBackend == "" {
		if err := config.WriteDefault(basePath); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
	} else if err := writeCustomConfig(basePath, opts); err != nil {
		return nil, err
	}

	cfg, err := config.Load(basePath, "")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Config:     cfg,
	}, nil
}

// HandleSchema prepares the configured store's tables, indexes or collection.
func (h *InitHandler) HandleSchema(ctx context.Context, schema ports.SchemaManager) error {
	if err := schema.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring store schema: %w", err)
	}
	return nil
}

func writeCustomConfig(basePath string, opts InitOptions) error {
	cfg := config.Default()
	if opts.StoreBackend != "" {
		cfg.Store.Backend = opts.StoreBackend
	}
	if opts.CacheBackend != "" {
		cfg.Cache.Backend = opts.CacheBackend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid init options: %w", err)
	}
	if err := config.Write(basePath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
