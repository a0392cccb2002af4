package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the job checker. It is loaded once per
// run and passed by reference through the pipeline; nothing mutates it after
// Load returns.
type Config struct {
	App          AppConfig
	Filters      FiltersConfig
	Locations    LocationsConfig
	Sources      SourcesConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	Store        StoreConfig
}

// AppConfig holds polling and recency settings.
type AppConfig struct {
	Interval               time.Duration // gap between polling cycles
	MaxPostAgeHours        int           // flat recency threshold
	AdaptiveRecency        bool          // widen the threshold on weekends
	WeekdayMaxPostAgeHours int
	WeekendMaxPostAgeHours int
}

// MaxAgeHours returns the recency threshold in effect for the given moment.
// Weekday is taken from now in UTC.
func (a AppConfig) MaxAgeHours(now time.Time) int {
	if !a.AdaptiveRecency {
		return a.MaxPostAgeHours
	}
	switch now.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return a.WeekendMaxPostAgeHours
	default:
		return a.WeekdayMaxPostAgeHours
	}
}

// FiltersConfig holds the keyword rule set. Company lists and keywords are
// lowercased at load time so the filter engine can compare directly.
type FiltersConfig struct {
	IncludeKeywords      []string
	IncludeBonusKeywords []string
	ExcludeTitleKeywords []string
	ExcludeTextKeywords  []string
	TitleMustIncludeAny  []string
	MinScore             int
	CompanyWhitelist     []string
	CompanyBlacklist     []string
	ExcludeContract      bool
	ExcludeIntern        bool
	ExcludePartTime      bool
	ExcludeTemp          bool
}

// LocationsConfig holds geographic classification settings.
type LocationsConfig struct {
	AustinAliases []string // lowercased aliases, e.g. "austin", "atx"
	USOnlyRemote  bool     // reject listings with non-US location indicators
}

// SourceToggle enables or disables a source with no extra parameters.
type SourceToggle struct {
	Enabled bool `yaml:"enabled"`
}

// BoardSource is a source that polls a list of company board tokens.
type BoardSource struct {
	Enabled   bool     `yaml:"enabled"`
	Companies []string `yaml:"companies"`
}

// FeedSource is a source that polls a list of RSS feed categories.
type FeedSource struct {
	Enabled    bool     `yaml:"enabled"`
	Categories []string `yaml:"categories"`
}

// AggregatorSource is a paid aggregator API queried with a location string.
type AggregatorSource struct {
	Enabled       bool   `yaml:"enabled"`
	LocationQuery string `yaml:"location_query"`
}

// SourcesConfig holds the per-source enable toggles and their extras.
type SourcesConfig struct {
	Remotive   SourceToggle     `yaml:"remotive"`
	Greenhouse BoardSource      `yaml:"greenhouse"`
	Lever      BoardSource      `yaml:"lever"`
	WWR        FeedSource       `yaml:"wwr"`
	JobsPikr   AggregatorSource `yaml:"jobspikr"`
	JobDataAPI AggregatorSource `yaml:"jobdataapi"`
}

// NotificationConfig selects the notifier and the display tags used when
// grouping messages. Telegram credentials come from the environment, not YAML.
type NotificationConfig struct {
	Type        string `yaml:"type"` // "log" or "telegram"
	TagAustin   string `yaml:"tag_austin"`
	TagUSRemote string `yaml:"tag_us_remote"`
	TagCore     string `yaml:"tag_core"`
	TagStretch  string `yaml:"tag_stretch"`
}

// RateLimitConfig controls the minimum gap between requests to the same source.
type RateLimitConfig struct {
	MinDelay        time.Duration
	SourceOverrides map[string]time.Duration
}

// MinDelayFor returns the configured delay for the given source, falling back
// to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.SourceOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// StoreConfig locates the seen-store database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	App          rawAppConfig       `yaml:"app"`
	Filters      rawFiltersConfig   `yaml:"filters"`
	Locations    rawLocationsConfig `yaml:"locations"`
	Sources      SourcesConfig      `yaml:"sources"`
	Notification NotificationConfig `yaml:"notification"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Store        StoreConfig        `yaml:"store"`
}

type rawAppConfig struct {
	Interval               string `yaml:"interval"`
	MaxPostAgeHours        *int   `yaml:"max_post_age_hours"`
	AdaptiveRecency        *bool  `yaml:"adaptive_recency"`
	WeekdayMaxPostAgeHours *int   `yaml:"weekday_max_post_age_hours"`
	WeekendMaxPostAgeHours *int   `yaml:"weekend_max_post_age_hours"`
}

type rawFiltersConfig struct {
	IncludeKeywords      []string `yaml:"include_keywords"`
	IncludeBonusKeywords []string `yaml:"include_bonus_keywords"`
	ExcludeTitleKeywords []string `yaml:"exclude_title_keywords"`
	ExcludeTextKeywords  []string `yaml:"exclude_text_keywords"`
	TitleMustIncludeAny  []string `yaml:"title_must_include_any"`
	MinScore             *int     `yaml:"min_score"`
	CompanyWhitelist     []string `yaml:"company_whitelist"`
	CompanyBlacklist     []string `yaml:"company_blacklist"`
	ExcludeContract      *bool    `yaml:"exclude_contract"`
	ExcludeIntern        *bool    `yaml:"exclude_intern"`
	ExcludePartTime      *bool    `yaml:"exclude_part_time"`
	ExcludeTemp          *bool    `yaml:"exclude_temp"`
}

type rawLocationsConfig struct {
	AustinAliases []string `yaml:"austin_aliases"`
	USOnlyRemote  *bool    `yaml:"us_only_remote"`
}

type rawRateLimitConfig struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func lowered(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// Load reads and parses the YAML config file at path, expands environment
// variables, applies defaults, validates, and returns the Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 2 * time.Minute
	if raw.App.Interval != "" {
		interval, err = time.ParseDuration(raw.App.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse app.interval %q: %w", raw.App.Interval, err)
		}
	}

	minDelay := time.Second
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}

	overrides := make(map[string]time.Duration)
	for source, v := range raw.RateLimit.SourceOverrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", source, err)
		}
		overrides[source] = d
	}

	maxAge := intOr(raw.App.MaxPostAgeHours, 24)

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}
	if notification.TagAustin == "" {
		notification.TagAustin = "[AUSTIN]"
	}
	if notification.TagUSRemote == "" {
		notification.TagUSRemote = "[US-REMOTE]"
	}
	if notification.TagCore == "" {
		notification.TagCore = "[CORE]"
	}
	if notification.TagStretch == "" {
		notification.TagStretch = "[STRETCH]"
	}

	storePath := raw.Store.Path
	if storePath == "" {
		storePath = "job_checker.db"
	}

	cfg := &Config{
		App: AppConfig{
			Interval:               interval,
			MaxPostAgeHours:        maxAge,
			AdaptiveRecency:        boolOr(raw.App.AdaptiveRecency, true),
			WeekdayMaxPostAgeHours: intOr(raw.App.WeekdayMaxPostAgeHours, maxAge),
			WeekendMaxPostAgeHours: intOr(raw.App.WeekendMaxPostAgeHours, 72),
		},
		Filters: FiltersConfig{
			IncludeKeywords:      raw.Filters.IncludeKeywords,
			IncludeBonusKeywords: raw.Filters.IncludeBonusKeywords,
			ExcludeTitleKeywords: raw.Filters.ExcludeTitleKeywords,
			ExcludeTextKeywords:  raw.Filters.ExcludeTextKeywords,
			TitleMustIncludeAny:  raw.Filters.TitleMustIncludeAny,
			MinScore:             intOr(raw.Filters.MinScore, 2),
			CompanyWhitelist:     lowered(raw.Filters.CompanyWhitelist),
			CompanyBlacklist:     lowered(raw.Filters.CompanyBlacklist),
			ExcludeContract:      boolOr(raw.Filters.ExcludeContract, true),
			ExcludeIntern:        boolOr(raw.Filters.ExcludeIntern, true),
			ExcludePartTime:      boolOr(raw.Filters.ExcludePartTime, true),
			ExcludeTemp:          boolOr(raw.Filters.ExcludeTemp, true),
		},
		Locations: LocationsConfig{
			AustinAliases: lowered(raw.Locations.AustinAliases),
			USOnlyRemote:  boolOr(raw.Locations.USOnlyRemote, true),
		},
		Sources:      raw.Sources,
		Notification: notification,
		RateLimit: RateLimitConfig{
			MinDelay:        minDelay,
			SourceOverrides: overrides,
		},
		Store: StoreConfig{Path: storePath},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.App.Interval <= 0 {
		return fmt.Errorf("app.interval must be positive, got %v", cfg.App.Interval)
	}
	if cfg.App.MaxPostAgeHours <= 0 {
		return fmt.Errorf("app.max_post_age_hours must be positive, got %d", cfg.App.MaxPostAgeHours)
	}
	if cfg.App.WeekdayMaxPostAgeHours <= 0 || cfg.App.WeekendMaxPostAgeHours <= 0 {
		return fmt.Errorf("weekday/weekend max_post_age_hours must be positive")
	}
	if cfg.Filters.MinScore < 1 {
		return fmt.Errorf("filters.min_score must be at least 1, got %d", cfg.Filters.MinScore)
	}

	enabled := 0
	s := cfg.Sources
	for _, on := range []bool{
		s.Remotive.Enabled, s.Greenhouse.Enabled, s.Lever.Enabled,
		s.WWR.Enabled, s.JobsPikr.Enabled, s.JobDataAPI.Enabled,
	} {
		if on {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Notification.Type {
	case "log", "telegram":
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"telegram\", got %q", cfg.Notification.Type)
	}

	return nil
}
