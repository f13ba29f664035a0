// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package logging provides centralized zerolog-based structured logging for Larder.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("source", "csv").Msg("Loading records")
//	logging.Error().Err(err).Msg("Run failed")
//
//	// Context-aware: adds request_id, correlation_id and run_id when present
//	logging.Ctx(ctx).Info().Msg("Aggregation complete")
//
// # Configuration
//
// Levels: trace, debug, info, warn, error, fatal, disabled (default info).
// Formats: json (default) or console. Both are set from the logging section
// of the application config (LOG_LEVEL, LOG_FORMAT, LOG_CALLER).
//
// # Run Logging
//
// RunLogger emits the fixed set of pipeline events (run started, source
// loaded, run completed, run failed) with consistent field names so that
// runs can be followed by run_id across log lines.
//
// # slog Adapter
//
// Suture reports supervisor events through slog. NewSlogLogger returns an
// slog.Logger that writes through the global zerolog logger:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Redaction
//
// RedactDSN and SanitizeValue strip credentials before connection strings
// or config values reach the log.
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
package logging
