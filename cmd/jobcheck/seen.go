package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wnaveed5/Job-Checker/internal/audit"
	"github.com/wnaveed5/Job-Checker/internal/store"
)

var seenLimit int

var seenCmd = &cobra.Command{
	Use:   "seen",
	Short: "Browse recent seen-store entries (TUI)",
	RunE:  runSeen,
}

func init() {
	seenCmd.Flags().IntVar(&seenLimit, "limit", 200, "maximum entries to load")
	rootCmd.AddCommand(seenCmd)
}

func runSeen(cmd *cobra.Command, args []string) error {
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

	entries, err := sqlStore.Recent(seenLimit)
	if err != nil {
		logger.Error("failed to load entries", "error", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("Seen store is empty.")
		return nil
	}

	return audit.RunBrowser(entries)
}
