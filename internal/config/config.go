// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package config

import (
	"time"
)

// Source kinds.
const (
	SourceCSV      = "csv"
	SourceDuckDB   = "duckdb"
	SourceExport   = "export"
	SourcePostgres = "postgres"
)

// DuckDB input formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers (see LoadWithKoanf):
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/larder/config.yaml)
//  3. Environment variables
type Config struct {
	Source   SourceConfig   `koanf:"source"`
	Postgres PostgresConfig `koanf:"postgres"`
	Engine   EngineConfig   `koanf:"engine"`
	Snapshot SnapshotConfig `koanf:"snapshot"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SourceConfig selects where the five record sets are read from.
//
// Environment Variables:
//   - LARDER_SOURCE: csv, duckdb, export, postgres (default: csv)
//   - DATA_DIR: directory holding the input files (default: ./data)
//   - DATA_FORMAT: csv or json, duckdb source only (default: csv)
//   - SOURCE_LOAD_TIMEOUT: upper bound for one load (default: 2m)
//   - SOURCE_BREAKER_ENABLED: wrap the source in a circuit breaker (default: true)
type SourceConfig struct {
	// Kind is the source implementation.
	Kind string `koanf:"kind"`

	// Dir holds recipes, ingredients, interactions, steps and users files.
	// Unused by the postgres source.
	Dir string `koanf:"dir"`

	// Format is the file format read by the duckdb source.
	Format string `koanf:"format"`

	// LoadTimeout bounds a single load. Zero disables the bound.
	LoadTimeout time.Duration `koanf:"load_timeout"`

	// BreakerEnabled wraps the source in a circuit breaker so a failing
	// backend is not hammered by periodic refreshes.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// PostgresConfig holds settings for the postgres source.
type PostgresConfig struct {
	URL         string        `koanf:"url"`
	MaxConns    int32         `koanf:"max_conns"`
	MinConns    int32         `koanf:"min_conns"`
	ConnTimeout time.Duration `koanf:"conn_timeout"`

	// Table names. Identifiers are quoted before use.
	RecipesTable      string `koanf:"recipes_table"`
	IngredientsTable  string `koanf:"ingredients_table"`
	InteractionsTable string `koanf:"interactions_table"`
	StepsTable        string `koanf:"steps_table"`
	UsersTable        string `koanf:"users_table"`
}

// EngineConfig tunes the aggregation run.
//
// Environment Variables:
//   - ENGINE_PARALLEL: run aggregators concurrently (default: true)
//   - ENGINE_WORKERS: concurrent aggregators, 0 = GOMAXPROCS (default: 0)
//   - TOP_N: ranking truncation (default: 10)
//   - TOP_USERS: most-active-users truncation (default: 5)
//   - INGREDIENT_ENGAGEMENT_TYPES: comma-separated (default: like,attempt)
//   - RECIPE_ENGAGEMENT_TYPES: comma-separated (default: like,attempt,view)
//   - RUN_TIMEOUT: deadline for a whole run (default: 5m)
//   - REFRESH_INTERVAL: periodic refresh, 0 disables (default: 15m)
type EngineConfig struct {
	Parallel bool `koanf:"parallel"`
	Workers  int  `koanf:"workers"`

	TopN                      int      `koanf:"top_n"`
	TopUsers                  int      `koanf:"top_users"`
	IngredientEngagementTypes []string `koanf:"ingredient_engagement_types"`
	RecipeEngagementTypes     []string `koanf:"recipe_engagement_types"`

	RunTimeout      time.Duration `koanf:"run_timeout"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// TriggerRate is the sustained rate of manual runs per second.
	TriggerRate  float64 `koanf:"trigger_rate"`
	TriggerBurst int     `koanf:"trigger_burst"`
}

// SnapshotConfig controls report persistence.
type SnapshotConfig struct {
	// Enabled persists reports to Badger. When false reports are kept in memory.
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`

	// Retention is the number of reports kept. Zero keeps everything.
	Retention int `koanf:"retention"`
}

// CacheConfig holds the encoded-result cache settings.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds HTTP API settings
type APIConfig struct {
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit   int      `koanf:"rate_limit"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration from multiple sources with the following precedence:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
