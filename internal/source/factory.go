// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"fmt"

	"github.com/tomtom215/larder/internal/config"
)

// New builds the source selected by cfg.Source.Kind, wrapped in a circuit
// breaker when enabled. Sources holding connections implement io.Closer.
func New(ctx context.Context, cfg *config.Config) (Source, error) {
	var src Source
	switch cfg.Source.Kind {
	case config.SourceCSV:
		src = NewCSVSource(cfg.Source.Dir)
	case config.SourceDuckDB:
		src = NewDuckDBSource(cfg.Source.Dir, cfg.Source.Format)
	case config.SourceExport:
		src = NewExportSource(cfg.Source.Dir)
	case config.SourcePostgres:
		pg, err := NewPostgresSource(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		src = pg
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	if cfg.Source.BreakerEnabled {
		src = NewBreakerSource(src)
	}
	return src, nil
}
