// Package main provides the entry point for the lore CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/infrastructure/telemetry"
)

var (
	version          = "0.1.0-dev"
	globalConfigPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	telemetry.Version = version
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lore",
		Short:         "A light-novel reader that reveals lore without spoilers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfigPath, "config", "c", "", "Config file (default .lore/config.yaml)")

	rootCmd.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newResolveCmd(),
		newEntitiesCmd(),
		newImportCmd(),
		newExportCmd(),
		newLibraryCmd(),
	)

	return rootCmd
}
