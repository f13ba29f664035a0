// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package config provides centralized configuration management for Larder.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/larder/config.yaml, /etc/larder/config.yml
 3. Environment variables, mapped through an explicit table

Later layers override earlier ones. Environment variables that are not in
the mapping table are ignored.

# Configuration Structure

  - SourceConfig: where the record sets come from (csv, duckdb, export, postgres)
  - PostgresConfig: pool sizing and table names for the postgres source
  - EngineConfig: top-N limits, engagement types, parallelism, refresh cadence
  - SnapshotConfig: Badger report persistence
  - CacheConfig: encoded-result cache TTL
  - ServerConfig / APIConfig: HTTP listener, rate limit, CORS
  - LoggingConfig: zerolog level, format, caller

# Environment Variables

Source:
  - LARDER_SOURCE: csv, duckdb, export, postgres (default: csv)
  - DATA_DIR: input directory (default: ./data)
  - DATA_FORMAT: csv or json for the duckdb source (default: csv)
  - DATABASE_URL: Postgres connection URL (required for postgres)

Engine:
  - TOP_N, TOP_USERS: ranking truncation (default: 10, 5)
  - INGREDIENT_ENGAGEMENT_TYPES: comma-separated (default: like,attempt)
  - RECIPE_ENGAGEMENT_TYPES: comma-separated (default: like,attempt,view)
  - ENGINE_PARALLEL, ENGINE_WORKERS: aggregator concurrency
  - RUN_TIMEOUT, REFRESH_INTERVAL: run deadline and refresh cadence

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8480)
  - API_RATE_LIMIT: requests per minute per IP (default: 120)
  - CORS_ORIGINS: comma-separated allowed origins (default: *)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller (default: false)

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}
	fmt.Printf("Reading %s input from %s\n", cfg.Source.Kind, cfg.Source.Dir)

# Validation

Load validates the result and fails on bad ports, unknown source kinds,
missing source paths or URLs, non-positive top-N values, unknown
interaction types, and unknown log levels or formats.
*/
package config
