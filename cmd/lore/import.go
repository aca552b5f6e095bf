package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-reader/internal/application/handlers"
	"github.com/ersonp/lore-reader/internal/domain/services"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Seed lore entities from JSON, CSV or YAML",
		Long: `Seeds lore entities from a structured file, or from stdin when the path is "-".
With --on-conflict=overwrite each entity replaces any stored entity with the
same novel and entity id, fragments included.`,
		Example: `  lore import seeds/asanagi.json
  cat lore.csv | lore import - --format csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Seed format (json, csv, yaml, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", string(services.ConflictOverwrite), "Existing entities: skip or overwrite")

	return cmd
}

func runImport(cmd *cobra.Command, source string, flags importFlags) error {
	strategy := services.ConflictStrategy(strings.ToLower(flags.onConflict))
	if strategy != services.ConflictSkip && strategy != services.ConflictOverwrite {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, overwrite)", flags.onConflict)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		handler := d.ImportHandler.WithStdin(cmd.InOrStdin())

		result, err := handler.Handle(ctx, source, handlers.ImportOptions{
			Format:     flags.format,
			DryRun:     flags.dryRun,
			OnConflict: strategy,
		})
		if err != nil {
			return fmt.Errorf("importing lore: %w", err)
		}

		printImportResult(cmd.OutOrStdout(), result, flags.dryRun)
		return nil
	})
}

func printImportResult(w io.Writer, result *handlers.ImportResult, dryRun bool) {
	fmt.Fprintf(w, "Source: %s\n", result.Source)
	if len(result.Novels) > 0 {
		fmt.Fprintf(w, "Novels: %s\n", strings.Join(result.Novels, ", "))
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nValidation errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}

	fmt.Fprintln(w)
	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Fprintf(w, "%s: %d entities", verb, result.Imported)
	if result.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped (already exist)", result.Skipped)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, ", %d errors", len(result.Errors))
	}
	fmt.Fprintln(w)
}
