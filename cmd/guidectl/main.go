// guidectl runs the out-of-band batch jobs: static snapshot generation and
// first-time flag recomputation. Both jobs share the server's configuration
// and database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/cache"
	"github.com/gsocguide/backend/pkg/config"
	"github.com/gsocguide/backend/pkg/database"
	"github.com/gsocguide/backend/pkg/logging"
	"github.com/gsocguide/backend/pkg/repositories"
	"github.com/gsocguide/backend/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath string
	targetYear int
)

var rootCmd = &cobra.Command{
	Use:   "guidectl",
	Short: "Batch jobs for the organizations guide",
	Long: `guidectl runs the guide's out-of-band batch jobs against the live store.

Run compute-first-time before snapshot when both are due: the snapshot
captures whatever first_time values are stored at generation time.`,
	SilenceUsage: true,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Generate the static JSON snapshot documents",
	RunE:  runSnapshot,
}

var computeFirstTimeCmd = &cobra.Command{
	Use:   "compute-first-time",
	Short: "Recompute the first_time flag for a target year",
	RunE:  runComputeFirstTime,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	computeFirstTimeCmd.Flags().IntVar(&targetYear, "year", 0, "target year (defaults to the current year)")

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(computeFirstTimeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(ctx context.Context) (*config.Config, *database.DB, *zap.Logger, error) {
	cfg, err := config.Load(configPath, Version)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: 5,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, db, logger, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, logger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer func() { _ = logger.Sync() }()

	repo := repositories.NewOrganizationRepository(db)
	generator := services.NewSnapshotService(repo, cfg.Snapshot, logger)

	result, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("snapshot generation failed: %w", err)
	}

	fmt.Printf("Snapshot written to %s: %d organizations, %d topics, %d failed writes\n",
		result.OutputDir, result.Organizations, result.Topics, result.FailedWrites)
	return nil
}

func runComputeFirstTime(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, logger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer func() { _ = logger.Sync() }()

	year := targetYear
	if year == 0 {
		year = services.CurrentYear()
	}

	// Invalidate the server's cached aggregates when Redis is configured;
	// otherwise they expire on their own TTL.
	rdb, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	responseCache := cache.New(rdb, time.Duration(cfg.Redis.TTLSecs)*time.Second)

	repo := repositories.NewOrganizationRepository(db)
	job := services.NewFirstTimeService(repo, responseCache, cfg.MinYear, cfg.MaxYear, logger)

	result, err := job.Recompute(ctx, year)
	if err != nil {
		return fmt.Errorf("recomputation failed: %w", err)
	}

	fmt.Printf("Recomputed first_time for %d: %d/%d updated, %d first-time, %d failed\n",
		result.Year, result.Updated, result.Total, result.FirstTimeCount, result.Failed)
	return nil
}
