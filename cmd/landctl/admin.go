package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/land-resolver/app/config"
	"github.com/land-resolver/internal/store"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(config.C.Database.Path, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.GetStats(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("records:      %d\n", stats.TotalRecords)
			fmt.Printf("addresses:    %d\n", stats.UniqueAddresses)
			fmt.Printf("communities:  %d\n", stats.UniqueCommunities)
			fmt.Printf("geocoded:     %d\n", stats.Geocoded)
			return nil
		},
	}
}

func newMaintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Offline database maintenance",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "fts-rebuild",
			Short: "Rebuild the full-text index from the base table",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(ctx context.Context, st *store.Store) error {
					return st.RebuildFTS(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "analyze",
			Short: "Refresh query planner statistics",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(ctx context.Context, st *store.Store) error {
					return st.Analyze(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Compact the database file",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(ctx context.Context, st *store.Store) error {
					return st.Vacuum(ctx)
				})
			},
		},
	)
	return cmd
}

func withStore(fn func(context.Context, *store.Store) error) error {
	st, err := store.Open(config.C.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(context.Background(), st)
}
