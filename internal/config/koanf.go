// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/larder/internal/models"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/larder/config.yaml",
	"/etc/larder/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:           SourceCSV,
			Dir:            "./data",
			Format:         FormatCSV,
			LoadTimeout:    2 * time.Minute,
			BreakerEnabled: true,
		},
		Postgres: PostgresConfig{
			URL:               "",
			MaxConns:          4,
			MinConns:          0,
			ConnTimeout:       10 * time.Second,
			RecipesTable:      "recipes",
			IngredientsTable:  "ingredients",
			InteractionsTable: "interactions",
			StepsTable:        "steps",
			UsersTable:        "users",
		},
		Engine: EngineConfig{
			Parallel:                  true,
			Workers:                   0, // 0 = GOMAXPROCS
			TopN:                      10,
			TopUsers:                  5,
			IngredientEngagementTypes: []string{models.InteractionLike, models.InteractionAttempt},
			RecipeEngagementTypes:     []string{models.InteractionLike, models.InteractionAttempt, models.InteractionView},
			RunTimeout:                5 * time.Minute,
			RefreshInterval:           15 * time.Minute,
			TriggerRate:               0.2, // one manual run every 5s sustained
			TriggerBurst:              2,
		},
		Snapshot: SnapshotConfig{
			Enabled:   true,
			Path:      "/data/larder-snapshots",
			Retention: 50,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Server: ServerConfig{
			Port:            8480,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			RateLimit:   120,
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file path. The file must
// exist; an empty path falls back to the default search.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return LoadWithKoanf()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DATA_DIR -> source.dir
	// DATABASE_URL -> postgres.url
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// normalize lowercases the enumerated string settings.
func (c *Config) normalize() {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	c.Source.Format = strings.ToLower(strings.TrimSpace(c.Source.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	for i, t := range c.Engine.IngredientEngagementTypes {
		c.Engine.IngredientEngagementTypes[i] = strings.ToLower(strings.TrimSpace(t))
	}
	for i, t := range c.Engine.RecipeEngagementTypes {
		c.Engine.RecipeEngagementTypes[i] = strings.ToLower(strings.TrimSpace(t))
	}
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"engine.ingredient_engagement_types",
	"engine.recipe_engagement_types",
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Source
	"larder_source":          "source.kind",
	"data_dir":               "source.dir",
	"data_format":            "source.format",
	"source_load_timeout":    "source.load_timeout",
	"source_breaker_enabled": "source.breaker_enabled",

	// Postgres
	"database_url":                "postgres.url",
	"postgres_max_conns":          "postgres.max_conns",
	"postgres_min_conns":          "postgres.min_conns",
	"postgres_conn_timeout":       "postgres.conn_timeout",
	"postgres_recipes_table":      "postgres.recipes_table",
	"postgres_ingredients_table":  "postgres.ingredients_table",
	"postgres_interactions_table": "postgres.interactions_table",
	"postgres_steps_table":        "postgres.steps_table",
	"postgres_users_table":        "postgres.users_table",

	// Engine
	"engine_parallel":             "engine.parallel",
	"engine_workers":              "engine.workers",
	"top_n":                       "engine.top_n",
	"top_users":                   "engine.top_users",
	"ingredient_engagement_types": "engine.ingredient_engagement_types",
	"recipe_engagement_types":     "engine.recipe_engagement_types",
	"run_timeout":                 "engine.run_timeout",
	"refresh_interval":            "engine.refresh_interval",
	"run_trigger_rate":            "engine.trigger_rate",
	"run_trigger_burst":           "engine.trigger_burst",

	// Snapshot
	"snapshot_enabled":   "snapshot.enabled",
	"snapshot_path":      "snapshot.path",
	"snapshot_retention": "snapshot.retention",

	// Cache
	"cache_enabled": "cache.enabled",
	"cache_ttl":     "cache.ttl",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// API
	"api_rate_limit": "api.rate_limit",
	"cors_origins":   "api.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DATA_DIR -> source.dir
//   - DATABASE_URL -> postgres.url
//   - TOP_N -> engine.top_n
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// do not pollute config.
	return ""
}
