package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/infrastructure/httpserver"
	"github.com/ersonp/lore-reader/internal/infrastructure/telemetry"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reader API",
		Long: `Serves the library, chapter and lore endpoints over HTTP until interrupted.

Endpoints:
  GET /api/library
  GET /api/novel/:novel_id/chapters
  GET /api/novel/:novel_id/:chapter_id
  GET /api/novel/:novel_id/lore/:entity_id?chapter=N
  GET /healthz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		serverCfg := d.Config.Server
		if addr != "" {
			serverCfg.Addr = addr
		}

		shutdownTracing := telemetry.Init(ctx, d.Config.Telemetry, d.Log)
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				d.Log.Warn("flushing traces failed", "error", err)
			}
		}()

		if serverCfg.Mode != "" {
			gin.SetMode(serverCfg.Mode)
		}

		router := httpserver.NewRouter(httpserver.RouterConfig{
			LoreHandler:    d.LoreHandler,
			LibraryHandler: d.LibraryHandler,
			Log:            d.Log,
			CORSOrigins:    serverCfg.CORSOrigins,
			ServiceName:    d.Config.Telemetry.ServiceName,
		})

		d.Log.Info("starting lore reader",
			"addr", serverCfg.Addr,
			"store", d.Config.Store.Backend,
			"cache", d.Config.Cache.Backend,
			"library", d.Config.Library.Root,
		)

		return httpserver.NewServer(serverCfg, router, d.Log).Run(ctx)
	})
}
