package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

func newLibraryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "library [novel]",
		Short: "List novels, or a novel's chapters",
		Long: `Without arguments, lists the novels under the configured library root.
With a novel id, lists that novel's translated chapters in reading order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLibrary,
	}
}

func runLibrary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		if len(args) == 1 {
			chapters, err := d.LibraryHandler.HandleChapters(ctx, args[0])
			if err != nil {
				return fmt.Errorf("listing chapters: %w", err)
			}
			printChapters(out, args[0], chapters)
			return nil
		}

		novels, err := d.LibraryHandler.HandleNovels(ctx)
		if err != nil {
			return fmt.Errorf("listing novels: %w", err)
		}
		printNovels(out, d.Config.Library.Root, novels)
		return nil
	})
}

func printNovels(w io.Writer, root string, novels []entities.Novel) {
	if len(novels) == 0 {
		fmt.Fprintf(w, "No novels found in %s.\n", root)
		return
	}
	fmt.Fprintf(w, "Novels (%d):\n", len(novels))
	for _, n := range novels {
		fmt.Fprintf(w, "  %-32s %s\n", n.ID, n.Title)
	}
}

func printChapters(w io.Writer, novelID string, chapters []entities.ChapterRef) {
	if len(chapters) == 0 {
		fmt.Fprintf(w, "No chapters found for %s.\n", novelID)
		return
	}
	fmt.Fprintf(w, "Chapters of %s (%d):\n", novelID, len(chapters))
	for _, c := range chapters {
		fmt.Fprintf(w, "  %-16s %s\n", c.ID, c.Title)
	}
}
