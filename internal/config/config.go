// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and STATSTACK_ env vars on top of New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory calculation job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of calculation workers.
	WorkerCount int `koanf:"worker_count"`

	// DefaultChallenge is used when a request names no challenge.
	DefaultChallenge string `koanf:"default_challenge"`

	// RoundsPerGame is the default length of generated team sequences.
	RoundsPerGame int `koanf:"rounds_per_game"`

	// SearchDeadlineMS is the wall-clock budget of one optimizer run.
	SearchDeadlineMS int `koanf:"search_deadline_ms"`

	// TimeoutThresholdMS is how close to the deadline the optimizer must
	// finish for a greedy answer to be classified greedy-timeout.
	TimeoutThresholdMS int `koanf:"timeout_threshold_ms"`

	// ShortlistSize is K in the per-team top-K candidate shortlist.
	ShortlistSize int `koanf:"shortlist_size"`

	// Memoization toggles the per-calculation memo cache.
	Memoization bool `koanf:"memoization"`

	// Priming knobs.
	PrimedMinTeams int      `koanf:"primed_min_teams"`
	PrimedTeamStat float64  `koanf:"primed_team_stat"`
	PrimedStat     float64  `koanf:"primed_stat"`
	PrimedPlayers  []string `koanf:"primed_players"`

	// DatasetFiles overrides the embedded player table per challenge id.
	DatasetFiles map[string]string `koanf:"dataset_files"`

	// ResultCacheSize bounds the in-memory result cache; 0 disables it.
	ResultCacheSize int `koanf:"result_cache_size"`

	// ResultCacheTTLSeconds is the expiry of Redis cache entries.
	ResultCacheTTLSeconds int `koanf:"result_cache_ttl_seconds"`

	// RedisAddr switches the result cache to Redis when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		QueueSize:             1_024,
		WorkerCount:           runtime.NumCPU(),
		DefaultChallenge:      "qb-wins",
		RoundsPerGame:         20,
		SearchDeadlineMS:      30_000,
		TimeoutThresholdMS:    10,
		ShortlistSize:         3,
		Memoization:           true,
		PrimedMinTeams:        3,
		PrimedTeamStat:        100,
		PrimedStat:            150,
		ResultCacheSize:       10_000,
		ResultCacheTTLSeconds: 86_400,
	}
}

// SearchDeadline returns the optimizer budget as a duration.
func (c *Config) SearchDeadline() time.Duration {
	return time.Duration(c.SearchDeadlineMS) * time.Millisecond
}

// TimeoutThreshold returns the greedy-timeout window as a duration.
func (c *Config) TimeoutThreshold() time.Duration {
	return time.Duration(c.TimeoutThresholdMS) * time.Millisecond
}

// ResultCacheTTL returns the Redis entry expiry as a duration.
func (c *Config) ResultCacheTTL() time.Duration {
	return time.Duration(c.ResultCacheTTLSeconds) * time.Second
}

// Validate checks the invariants the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.RoundsPerGame <= 0 || c.RoundsPerGame > 32:
		return fmt.Errorf("%w: rounds_per_game must be within 1..32", ErrInvalidConfig)
	case c.SearchDeadlineMS <= 0:
		return fmt.Errorf("%w: search_deadline_ms must be positive", ErrInvalidConfig)
	case c.TimeoutThresholdMS < 0 || c.TimeoutThresholdMS >= c.SearchDeadlineMS:
		return fmt.Errorf("%w: timeout_threshold_ms must be within 0..search_deadline_ms", ErrInvalidConfig)
	case c.ShortlistSize <= 0:
		return fmt.Errorf("%w: shortlist_size must be positive", ErrInvalidConfig)
	case c.ResultCacheSize < 0:
		return fmt.Errorf("%w: result_cache_size must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
