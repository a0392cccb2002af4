package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wnaveed5/Job-Checker/internal/notifier"
	"github.com/wnaveed5/Job-Checker/internal/store"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seed the seen store without notifying",
	Long:  "Fetches and filters all sources, then marks every current match as seen. Run this once before `start` to avoid a backlog of alerts.",
	RunE:  runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	// Bootstrap never notifies, so the notifier choice is irrelevant.
	pipe, err := buildPipeline(cfg, sqlStore, notifier.NewLogNotifier(logger), logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pipe.Bootstrap(ctx); err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	if count, err := sqlStore.Count(); err == nil {
		logger.Info("seen store seeded", "entries", count)
	}
	return nil
}
