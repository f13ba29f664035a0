// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package source reads the raw record sets a run aggregates over.

Every implementation returns a complete models.RawDataset or an error; the
pipeline treats any error as fatal for the run. Records are delivered as
loose key/value maps and are normalized downstream.

Implementations:
  - CSVSource: recipes.csv (or recipe.csv), ingredients.csv,
    interactions.csv, steps.csv and an optional users.csv
  - DuckDBSource: the same tables through read_csv_auto or read_json_auto
  - ExportSource: a document export (recipes.json with nested ingredients
    and steps, interactions.json, users.json) flattened into tables
  - PostgresSource: one table per record set, read in a single
    repeatable-read transaction
  - BreakerSource: circuit breaker around any of the above

Usage:

	src, err := source.New(ctx, cfg)
	if err != nil {
	    return err
	}
	raw, err := src.Load(ctx)
*/
package source
