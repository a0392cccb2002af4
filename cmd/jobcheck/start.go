package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wnaveed5/Job-Checker/internal/scheduler"
	"github.com/wnaveed5/Job-Checker/internal/store"
)

var intervalOverride time.Duration

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the polling daemon",
	Long:  "Start the polling loop; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().DurationVar(&intervalOverride, "interval", 0, "override app.interval from config")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	interval := cfg.App.Interval
	if intervalOverride > 0 {
		interval = intervalOverride
	}

	logger.Info("config loaded",
		"interval", interval.String(),
		"include_keywords", len(cfg.Filters.IncludeKeywords),
		"min_score", cfg.Filters.MinScore,
		"us_only_remote", cfg.Locations.USOnlyRemote,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	if empty, err := sqlStore.IsEmpty(); err == nil && empty {
		logger.Warn("seen store is empty; the first cycle will notify every current match — consider running `jobcheck bootstrap` first")
	}

	n, err := setupNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to set up notifier", "error", err)
		os.Exit(1)
	}

	pipe, err := buildPipeline(cfg, sqlStore, n, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(pipe, interval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
