// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/larder/internal/models"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validatePostgres(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateSnapshot(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

var validSourceKinds = map[string]bool{
	SourceCSV:      true,
	SourceDuckDB:   true,
	SourceExport:   true,
	SourcePostgres: true,
}

var validFormats = map[string]bool{
	FormatCSV:  true,
	FormatJSON: true,
}

func (c *Config) validateSource() error {
	if !validSourceKinds[c.Source.Kind] {
		return fmt.Errorf("LARDER_SOURCE must be one of csv, duckdb, export, postgres, got: %q", c.Source.Kind)
	}
	if c.Source.Kind != SourcePostgres && strings.TrimSpace(c.Source.Dir) == "" {
		return fmt.Errorf("DATA_DIR is required for the %s source", c.Source.Kind)
	}
	if c.Source.Kind == SourceDuckDB && !validFormats[c.Source.Format] {
		return fmt.Errorf("DATA_FORMAT must be csv or json, got: %q", c.Source.Format)
	}
	if c.Source.LoadTimeout < 0 {
		return fmt.Errorf("SOURCE_LOAD_TIMEOUT must not be negative, got: %v", c.Source.LoadTimeout)
	}
	return nil
}

func (c *Config) validatePostgres() error {
	if c.Source.Kind != SourcePostgres {
		return nil
	}
	if c.Postgres.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres source")
	}
	if err := validatePostgresURL(c.Postgres.URL); err != nil {
		return fmt.Errorf("DATABASE_URL: %w", err)
	}
	if c.Postgres.MaxConns < 1 {
		return fmt.Errorf("POSTGRES_MAX_CONNS must be at least 1, got: %d", c.Postgres.MaxConns)
	}
	if c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
		return fmt.Errorf("POSTGRES_MIN_CONNS must be between 0 and %d, got: %d", c.Postgres.MaxConns, c.Postgres.MinConns)
	}
	tables := map[string]string{
		"POSTGRES_RECIPES_TABLE":      c.Postgres.RecipesTable,
		"POSTGRES_INGREDIENTS_TABLE":  c.Postgres.IngredientsTable,
		"POSTGRES_INTERACTIONS_TABLE": c.Postgres.InteractionsTable,
		"POSTGRES_STEPS_TABLE":        c.Postgres.StepsTable,
	}
	for name, table := range tables {
		if strings.TrimSpace(table) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("ENGINE_WORKERS must not be negative, got: %d", c.Engine.Workers)
	}
	if c.Engine.TopN < 1 {
		return fmt.Errorf("TOP_N must be at least 1, got: %d", c.Engine.TopN)
	}
	if c.Engine.TopUsers < 1 {
		return fmt.Errorf("TOP_USERS must be at least 1, got: %d", c.Engine.TopUsers)
	}
	if err := validateInteractionTypes("INGREDIENT_ENGAGEMENT_TYPES", c.Engine.IngredientEngagementTypes); err != nil {
		return err
	}
	if err := validateInteractionTypes("RECIPE_ENGAGEMENT_TYPES", c.Engine.RecipeEngagementTypes); err != nil {
		return err
	}
	if c.Engine.RunTimeout < 0 {
		return fmt.Errorf("RUN_TIMEOUT must not be negative, got: %v", c.Engine.RunTimeout)
	}
	if c.Engine.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative, got: %v", c.Engine.RefreshInterval)
	}
	if c.Engine.TriggerRate <= 0 {
		return fmt.Errorf("RUN_TRIGGER_RATE must be positive, got: %v", c.Engine.TriggerRate)
	}
	if c.Engine.TriggerBurst < 1 {
		return fmt.Errorf("RUN_TRIGGER_BURST must be at least 1, got: %d", c.Engine.TriggerBurst)
	}
	return nil
}

func validateInteractionTypes(field string, types []string) error {
	if len(types) == 0 {
		return fmt.Errorf("%s must list at least one interaction type", field)
	}
	for _, t := range types {
		if !models.IsInteractionType(t) {
			return fmt.Errorf("%s contains unknown interaction type %q (valid: %s)",
				field, t, strings.Join(models.InteractionTypes, ", "))
		}
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	if c.Snapshot.Enabled && strings.TrimSpace(c.Snapshot.Path) == "" {
		return fmt.Errorf("SNAPSHOT_PATH is required when snapshots are enabled")
	}
	if c.Snapshot.Retention < 0 {
		return fmt.Errorf("SNAPSHOT_RETENTION must not be negative, got: %d", c.Snapshot.Retention)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when the cache is enabled, got: %v", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.RateLimit < 0 {
		return fmt.Errorf("API_RATE_LIMIT must not be negative, got: %d", c.API.RateLimit)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %q", c.Logging.Level)
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %q", c.Logging.Format)
	}
	return nil
}
