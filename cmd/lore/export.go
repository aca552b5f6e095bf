package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/domain/ports"
	"github.com/ersonp/lore-reader/internal/infrastructure/parsers"
)

type exportFlags struct {
	format string
	output string
	limit  int
}

// exportSource is the store surface the exporter reads from.
type exportSource interface {
	ports.LoreStore
	ports.LoreLister
}

type exporter struct {
	store  exportSource
	format string
	output string
	out    io.Writer
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <novel>",
		Short: "Export a novel's lore entities to file",
		Long: `Exports every lore entity of a novel, fragments included, in a format that
'lore import' reads back. The export is not spoiler-filtered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, yaml)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultExportLimit, "Maximum number of entities to export")

	return cmd
}

func runExport(cmd *cobra.Command, novelID string, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	return withStore(ctx, func(store loreBackend) error {
		e := &exporter{
			store:  store,
			format: flags.format,
			output: flags.output,
			out:    cmd.OutOrStdout(),
		}

		lore, err := e.fetchLore(ctx, novelID, flags.limit)
		if err != nil {
			return err
		}

		return e.export(lore)
	})
}

// fetchLore lists a novel's entities and loads each one's fragments,
// keeping the listing order.
func (e *exporter) fetchLore(ctx context.Context, novelID string, limit int) ([]*entities.LoreEntity, error) {
	list, err := e.store.ListEntities(ctx, novelID, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no lore entities found for novel %q", novelID)
	}

	lore := make([]*entities.LoreEntity, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for i, item := range list {
		g.Go(func() error {
			full, err := e.store.Fetch(gctx, item.NovelID, item.EntityID)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", item.Key(), err)
			}
			lore[i] = full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lore, nil
}

func (e *exporter) export(lore []*entities.LoreEntity) (err error) {
	w := e.out

	if e.output != "" {
		f, err := os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	if err := e.formatLore(w, lore); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Fprintf(e.out, "Exported %d entities to %s\n", len(lore), e.output)
	}

	return nil
}

func (e *exporter) formatLore(w io.Writer, lore []*entities.LoreEntity) error {
	switch e.format {
	case "json":
		return formatJSON(w, lore)
	case "csv":
		return formatCSV(w, lore)
	case "yaml":
		return formatYAML(w, lore)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

// toRaw converts entities to the import record shape.
func toRaw(lore []*entities.LoreEntity) []parsers.RawLore {
	raw := make([]parsers.RawLore, 0, len(lore))
	for _, e := range lore {
		steps := make([]parsers.RawStep, 0, len(e.Fragments))
		for _, f := range e.Fragments {
			minChapter := f.MinChapter
			steps = append(steps, parsers.RawStep{MinChapter: &minChapter, Content: f.Content})
		}
		raw = append(raw, parsers.RawLore{
			NovelID:  e.NovelID,
			EntityID: e.EntityID,
			Name:     e.Name,
			Type:     e.Type,
			Steps:    steps,
		})
	}
	return raw
}

func formatJSON(w io.Writer, lore []*entities.LoreEntity) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toRaw(lore))
}

func formatYAML(w io.Writer, lore []*entities.LoreEntity) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(toRaw(lore)); err != nil {
		return err
	}
	return encoder.Close()
}

// formatCSV writes one row per fragment. Entities without fragments have no
// rows, since every CSV row carries a min_chapter.
func formatCSV(w io.Writer, lore []*entities.LoreEntity) error {
	writer := csv.NewWriter(w)

	header := []string{"novel_id", "entity_id", "name", "type", "min_chapter", "content"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range lore {
		for _, f := range e.Fragments {
			row := []string{
				e.NovelID,
				e.EntityID,
				e.Name,
				e.Type,
				strconv.Itoa(f.MinChapter),
				f.Content,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
