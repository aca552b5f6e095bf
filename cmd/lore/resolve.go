package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

type resolveFlags struct {
	chapter int
	asJSON  bool
}

func newResolveCmd() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve <novel> <entity>",
		Short: "Show what a reader at a chapter may know about an entity",
		Long: `Resolves the spoiler-free view of a lore entity for a reading position.

Examples:
  lore resolve kurasu-de-nibanme char_asanagi --chapter 10
  lore resolve kurasu-de-nibanme char_asanagi --chapter 10 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().IntVar(&flags.chapter, "chapter", 0, "Chapter the reader is on")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the view as JSON")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}

func runResolve(cmd *cobra.Command, novelID, entityID string, flags resolveFlags) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		view, err := d.LoreHandler.HandleResolve(ctx, novelID, entityID, flags.chapter)
		if err != nil {
			return fmt.Errorf("resolving lore: %w", err)
		}
		return printView(cmd.OutOrStdout(), view, flags.chapter, flags.asJSON)
	})
}

// printView writes a resolved view as indented JSON or as readable text.
func printView(w io.Writer, view *entities.VisibleLoreView, chapter int, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Fprintf(w, "%s (%s) as of chapter %d\n", view.Name, view.Type, chapter)
	fmt.Fprintln(w)
	if len(view.SpoilerFreeSteps) == 0 {
		fmt.Fprintln(w, "Nothing revealed yet.")
		return nil
	}
	fmt.Fprintln(w, view.VisibleDescription)
	return nil
}
