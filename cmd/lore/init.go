package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/application/handlers"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a lore reader workspace",
		Long:  "Creates a .lore directory with default configuration and prepares the configured lore store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.StoreBackend, "store", "", "Lore store backend (sqlite, mongo, qdrant)")
	cmd.Flags().StringVar(&opts.CacheBackend, "cache", "", "View cache backend (redis, none)")

	return cmd
}

func runInit(cmd *cobra.Command, opts handlers.InitOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	initHandler := handlers.NewInitHandler()

	result, err := initHandler.Handle(cwd, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)

	err = withStore(ctx, func(store loreBackend) error {
		return initHandler.HandleSchema(ctx, store)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Prepared %s lore store\n", describeStore(result.Config.Store))
	fmt.Fprintln(out, "Lore initialized successfully!")

	return nil
}

// describeStore names the backend and where it lives.
func describeStore(cfg config.StoreConfig) string {
	switch cfg.Backend {
	case config.StoreMongo:
		return fmt.Sprintf("mongo (%s.%s)", cfg.Mongo.Database, cfg.Mongo.Collection)
	case config.StoreQdrant:
		return fmt.Sprintf("qdrant (%s)", cfg.Qdrant.Collection)
	default:
		return fmt.Sprintf("sqlite (%s)", cfg.SQLite.Path)
	}
}
