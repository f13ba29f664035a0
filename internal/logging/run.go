// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RunLogger emits the lifecycle events of an aggregation run.
type RunLogger struct {
	logger zerolog.Logger
}

// NewRunLogger creates a run logger on the global logger.
func NewRunLogger() *RunLogger {
	return &RunLogger{logger: WithComponent("pipeline")}
}

// NewRunLoggerWithLogger creates a run logger on a specific logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRunLoggerWithLogger(logger zerolog.Logger) *RunLogger {
	return &RunLogger{logger: logger.With().Str("component", "pipeline").Logger()}
}

func (r *RunLogger) with(ctx context.Context) zerolog.Logger {
	l := r.logger
	if id := RunIDFromContext(ctx); id != "" {
		l = l.With().Str("run_id", id).Logger()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return l
}

// LogRunStarted logs the start of a run.
func (r *RunLogger) LogRunStarted(ctx context.Context, source, trigger string) {
	l := r.with(ctx)
	l.Info().Str("source", source).Str("trigger", trigger).Msg("Run started")
}

// LogSourceLoaded logs a successful source load.
func (r *RunLogger) LogSourceLoaded(ctx context.Context, source string, counts map[string]int, elapsed time.Duration) {
	l := r.with(ctx)
	event := l.Info().Str("source", source).Dur("elapsed", elapsed)
	for entity, n := range counts {
		event = event.Int(entity+"s", n)
	}
	event.Msg("Source loaded")
}

// LogNormalization logs records the normalizer could not fully resolve.
// Nothing is logged when every record resolved cleanly.
func (r *RunLogger) LogNormalization(ctx context.Context, missingKeys, unparseable map[string]int) {
	total := 0
	for _, n := range missingKeys {
		total += n
	}
	for _, n := range unparseable {
		total += n
	}
	if total == 0 {
		return
	}
	l := r.with(ctx)
	l.Warn().
		Interface("missing_keys", missingKeys).
		Interface("unparseable_values", unparseable).
		Msg("Records with missing keys or unparseable values")
}

// LogRunCompleted logs a finished run with its outcome counts.
func (r *RunLogger) LogRunCompleted(ctx context.Context, ok, noResult, failed int, elapsed time.Duration) {
	l := r.with(ctx)
	event := l.Info()
	if failed > 0 {
		event = l.Warn()
	}
	event.
		Int("ok", ok).
		Int("no_result", noResult).
		Int("failed", failed).
		Dur("elapsed", elapsed).
		Msg("Run completed")
}

// LogRunFailed logs a run that produced no report.
func (r *RunLogger) LogRunFailed(ctx context.Context, err error, elapsed time.Duration) {
	l := r.with(ctx)
	l.Error().Err(err).Dur("elapsed", elapsed).Msg("Run failed")
}
