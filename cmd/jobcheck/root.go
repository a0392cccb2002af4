package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wnaveed5/Job-Checker/internal/adapter"
	"github.com/wnaveed5/Job-Checker/internal/config"
	"github.com/wnaveed5/Job-Checker/internal/filter"
	"github.com/wnaveed5/Job-Checker/internal/model"
	"github.com/wnaveed5/Job-Checker/internal/notifier"
	"github.com/wnaveed5/Job-Checker/internal/pipeline"
	"github.com/wnaveed5/Job-Checker/internal/ratelimit"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobcheck",
	Short: "Job checker — Austin and US-remote engineering alerts",
	Long:  "Polls job boards and aggregators, filters against a keyword rule set, and alerts on new Austin or US-remote roles.",
	// Default to `start` so that `jobcheck` with no args runs the daemon.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBCHECK_CONFIG env var or ./config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBCHECK_CONFIG env var > "./config.yml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBCHECK_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// setupNotifier builds the configured notifier. Telegram credentials come
// from the environment so they never live in the config file.
func setupNotifier(cfg *config.Config, logger *slog.Logger) (model.Notifier, error) {
	if cfg.Notification.Type != "telegram" {
		return notifier.NewLogNotifier(logger), nil
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	coreChat := os.Getenv("TELEGRAM_CORE_CHAT_ID")
	stretchChat := os.Getenv("TELEGRAM_STRETCH_CHAT_ID")
	if token == "" || coreChat == "" || stretchChat == "" {
		return nil, fmt.Errorf("telegram notifier requires TELEGRAM_BOT_TOKEN, TELEGRAM_CORE_CHAT_ID, and TELEGRAM_STRETCH_CHAT_ID")
	}

	coreID, err := strconv.ParseInt(coreChat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse TELEGRAM_CORE_CHAT_ID: %w", err)
	}
	stretchID, err := strconv.ParseInt(stretchChat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse TELEGRAM_STRETCH_CHAT_ID: %w", err)
	}

	logger.Info("using telegram notifier")
	return notifier.NewTelegramNotifier(token, coreID, stretchID,
		cfg.Notification.TagCore, cfg.Notification.TagStretch, logger)
}

// buildSources constructs the enabled source adapters, each wrapped with
// source-level rate limiting.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Source {
	limiter := ratelimit.NewSourceRateLimiter(cfg.RateLimit.MinDelayFor)

	var sources []model.Source
	add := func(s model.Source) {
		sources = append(sources, ratelimit.NewLimitedSource(s, limiter))
		logger.Info("registered source", "source", s.Name())
	}

	if cfg.Sources.Remotive.Enabled {
		add(adapter.NewRemotiveSource(cfg.Filters.IncludeKeywords, httpClient))
	}
	if cfg.Sources.Greenhouse.Enabled {
		add(adapter.NewGreenhouseSource(cfg.Sources.Greenhouse.Companies, httpClient))
	}
	if cfg.Sources.Lever.Enabled {
		add(adapter.NewLeverSource(cfg.Sources.Lever.Companies, httpClient))
	}
	if cfg.Sources.WWR.Enabled {
		categories := cfg.Sources.WWR.Categories
		if len(categories) == 0 {
			categories = []string{"devops-sysadmin"}
		}
		add(adapter.NewWWRSource(categories, httpClient))
	}
	if cfg.Sources.JobsPikr.Enabled {
		add(adapter.NewJobsPikrSource(cfg.Filters.IncludeKeywords, locationQueryOr(cfg.Sources.JobsPikr.LocationQuery), httpClient))
	}
	if cfg.Sources.JobDataAPI.Enabled {
		add(adapter.NewJobDataAPISource(cfg.Filters.IncludeKeywords, locationQueryOr(cfg.Sources.JobDataAPI.LocationQuery), httpClient))
	}
	return sources
}

func locationQueryOr(q string) string {
	if q == "" {
		return "Austin, TX OR Remote US"
	}
	return q
}

// buildPipeline wires the full cycle: sources → filter engine → store →
// notifier.
func buildPipeline(cfg *config.Config, seenStore model.SeenStore, n model.Notifier, logger *slog.Logger) (*pipeline.Pipeline, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	sources := buildSources(cfg, httpClient, logger)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	engine := filter.New(cfg)
	return pipeline.New(sources, engine, seenStore, n, cfg, logger), nil
}
