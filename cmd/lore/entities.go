package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/application/handlers"
)

func newEntitiesCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entities <novel>",
		Short: "List lore entities stored for a novel",
		Long: `List stored lore entities for a novel without revealing their content.

Examples:
  lore entities kurasu-de-nibanme
  lore entities kurasu-de-nibanme --limit 20 --offset 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntities(cmd, args[0], limit, offset)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultListLimit, "Maximum number of entities to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entities to skip")

	return cmd
}

func runEntities(cmd *cobra.Command, novelID string, limit, offset int) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.EntityHandler.HandleList(ctx, novelID, limit, offset)
		if err != nil {
			return fmt.Errorf("listing entities: %w", err)
		}
		printEntities(cmd.OutOrStdout(), result)
		return nil
	})
}

func printEntities(w io.Writer, result *handlers.EntityListResult) {
	if len(result.Entities) == 0 {
		fmt.Fprintln(w, "No entities found.")
		return
	}

	fmt.Fprintf(w, "Entities (%d total):\n", result.Total)
	fmt.Fprintln(w)

	for _, entity := range result.Entities {
		typ := entity.Type
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(w, "  %-32s %-12s %s\n", entity.EntityID, typ, entity.Name)
	}
}
