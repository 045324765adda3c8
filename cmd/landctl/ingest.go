package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/land-resolver/app/config"
	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/ingest"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/store"
)

func newIngestCmd() *cobra.Command {
	var (
		source   string
		mode     string
		cityCode string
	)
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest transaction files into the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(config.C.Database.Path, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			norm := normalizer.NewNormalizer()
			p := parser.NewParser(norm)
			disamb := parser.NewDisambiguator(st, logger)
			enricher := ingest.NewEnricher(st, norm, p, disamb, config.C.Ingest.BatchSize, logger)

			ctx := context.Background()
			ingestMode := ingest.Mode(mode)
			if ingestMode == ingest.ModeIncremental {
				if err := enricher.LoadIndex(ctx); err != nil {
					return err
				}
			}

			var total ingest.Counters
			for i, path := range args {
				records, err := readRecords(path, source, cityCode)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				// Only the first file may wipe the table.
				fileMode := ingestMode
				if i > 0 {
					fileMode = ingest.ModeIncremental
				}
				counters, err := enricher.IngestBatch(ctx, records, fileMode)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Info("file ingested",
					zap.String("path", path),
					zap.Int("inserted", counters.Inserted),
					zap.Int("enriched", counters.Enriched),
					zap.Int("discarded", counters.Discarded))
				total.Inserted += counters.Inserted
				total.Enriched += counters.Enriched
				total.Discarded += counters.Discarded
			}

			fmt.Printf("inserted %d, enriched %d, discarded %d\n",
				total.Inserted, total.Enriched, total.Discarded)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "csv", "input format: csv or api")
	cmd.Flags().StringVar(&mode, "mode", "incremental", "ingest mode: rebuild or incremental")
	cmd.Flags().StringVar(&cityCode, "city-code", "", "MOI city letter for government CSV files")
	return cmd
}

func readRecords(path, source, cityCode string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch source {
	case "csv":
		return ingest.ReadCSV(f, cityCode)
	case "api":
		return ingest.ReadAPI(f)
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}
