// Command landctl is the operator CLI: ingestion, address and community
// lookups, geocoding and database maintenance without the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/land-resolver/app/config"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "landctl",
		Short: "Land transaction address resolver toolkit",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(configPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			var err error
			logger, err = zap.NewProduction()
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/app.yaml", "config file path")
	root.PersistentFlags().StringVar(&config.C.Database.Path, "db", config.C.Database.Path, "sqlite database path")

	root.AddCommand(
		newIngestCmd(),
		newSearchCmd(),
		newCommunityCmd(),
		newResolveCommunityCmd(),
		newGeocodeCmd(),
		newStatsCmd(),
		newMaintenanceCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
