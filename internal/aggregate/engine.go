// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package aggregate

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/larder/internal/assemble"
	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/metrics"
	"github.com/tomtom215/larder/internal/models"
)

// EngineConfig controls how the catalog is executed.
type EngineConfig struct {
	// Parallel runs aggregators concurrently. Aggregators share only the
	// read-only dataset.
	Parallel bool

	// Workers caps concurrent aggregators when Parallel is set.
	// Zero means GOMAXPROCS.
	Workers int
}

// Engine runs a catalog of aggregators over one dataset.
type Engine struct {
	defs []Definition
	cfg  EngineConfig
}

// NewEngine creates an engine for defs.
func NewEngine(defs []Definition, cfg EngineConfig) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{defs: defs, cfg: cfg}
}

// Definitions returns the catalog the engine runs.
func (e *Engine) Definitions() []Definition {
	out := make([]Definition, len(e.defs))
	copy(out, e.defs)
	return out
}

// Run executes every aggregator and returns one result set per definition,
// in catalog order. A failing aggregator only affects its own slot.
// Run returns an error only when ctx ends before all aggregators finish.
func (e *Engine) Run(ctx context.Context, ds *models.Dataset) ([]models.ResultSet, error) {
	if ds == nil {
		ds = &models.Dataset{}
	}
	results := make([]models.ResultSet, len(e.defs))

	if !e.cfg.Parallel {
		for i, def := range e.defs {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("aggregation aborted before %s: %w", def.Name, err)
			}
			results[i] = e.invoke(ctx, def, ds)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, def := range e.defs {
		i, def := i, def
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("aggregation aborted before %s: %w", def.Name, err)
			}
			results[i] = e.invoke(gctx, def, ds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// invoke runs a single aggregator, converting panics into a failed slot.
func (e *Engine) invoke(ctx context.Context, def Definition, ds *models.Dataset) (rs models.ResultSet) {
	start := time.Now()
	logger := logging.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordAggregatorPanic(def.Name)
			logger.Error().
				Str("aggregator", def.Name).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Aggregator panicked")
			rs = assemble.Failed(def.Name, def.Shape, fmt.Sprintf("panic: %v", r))
		}
		metrics.RecordAggregator(def.Name, rs.Status, time.Since(start))
	}()

	if def.Run == nil {
		return assemble.Failed(def.Name, def.Shape, "aggregator has no implementation")
	}

	out, err := def.Run(ds)
	rs = assemble.Assemble(def.Name, def.Shape, out, err)

	switch rs.Status {
	case models.StatusFailed:
		logger.Error().Err(err).Str("aggregator", def.Name).Msg("Aggregator failed")
	case models.StatusNoResult:
		logger.Debug().Str("aggregator", def.Name).Msg("Aggregator produced no result")
	}
	return rs
}
