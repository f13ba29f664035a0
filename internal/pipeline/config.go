// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package pipeline

import (
	"github.com/tomtom215/larder/internal/aggregate"
	"github.com/tomtom215/larder/internal/cache"
	"github.com/tomtom215/larder/internal/config"
	"github.com/tomtom215/larder/internal/snapshot"
	"github.com/tomtom215/larder/internal/source"
)

// CatalogOptions converts engine settings into catalog tuning.
func CatalogOptions(cfg config.EngineConfig) aggregate.Options {
	opts := aggregate.DefaultOptions()
	if cfg.TopN > 0 {
		opts.TopN = cfg.TopN
	}
	if cfg.TopUsers > 0 {
		opts.TopUsers = cfg.TopUsers
	}
	if len(cfg.IngredientEngagementTypes) > 0 {
		opts.IngredientEngagementTypes = cfg.IngredientEngagementTypes
	}
	if len(cfg.RecipeEngagementTypes) > 0 {
		opts.RecipeEngagementTypes = cfg.RecipeEngagementTypes
	}
	return opts
}

// NewEngine builds the aggregation engine described by cfg.
func NewEngine(cfg config.EngineConfig) *aggregate.Engine {
	return aggregate.NewEngine(aggregate.Catalog(CatalogOptions(cfg)), aggregate.EngineConfig{
		Parallel: cfg.Parallel,
		Workers:  cfg.Workers,
	})
}

// NewRunnerFromConfig wires a runner from application config. store and c
// may be nil.
func NewRunnerFromConfig(cfg *config.Config, src source.Source, store snapshot.Store, c *cache.Cache) (*Runner, error) {
	return NewRunner(Config{
		Source:       src,
		Engine:       NewEngine(cfg.Engine),
		Store:        store,
		Cache:        c,
		LoadTimeout:  cfg.Source.LoadTimeout,
		RunTimeout:   cfg.Engine.RunTimeout,
		TriggerRate:  cfg.Engine.TriggerRate,
		TriggerBurst: cfg.Engine.TriggerBurst,
	})
}
