// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/models"
)

// DuckDBSource reads the record sets through an in-memory DuckDB instance
// using read_csv_auto or read_json_auto. CSV cells are read as text so
// identifiers keep their exact spelling; JSON values keep their types.
type DuckDBSource struct {
	dir    string
	format string
}

// NewDuckDBSource creates a DuckDB-backed source. format is "csv" or "json".
func NewDuckDBSource(dir, format string) *DuckDBSource {
	return &DuckDBSource{dir: dir, format: format}
}

// Name implements Source.
func (s *DuckDBSource) Name() string { return "duckdb" }

// Load implements Source.
func (s *DuckDBSource) Load(ctx context.Context) (*models.RawDataset, error) {
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close duckdb connection")
		}
	}()

	ext := ".csv"
	reader := "read_csv_auto(%s, header=true, all_varchar=true)"
	if s.format == "json" {
		ext = ".json"
		reader = "read_json_auto(%s)"
	}

	return loadFiles(ctx, s.dir, ext, func(ctx context.Context, path string) ([]models.RawRecord, error) {
		query := "SELECT * FROM " + fmt.Sprintf(reader, quoteLiteral(path))
		return queryRecords(ctx, conn, query)
	})
}

// quoteLiteral quotes s as a SQL string literal. Table functions do not
// accept bound parameters for their file argument.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// queryRecords runs query and returns each row as a record keyed by column name.
func queryRecords(ctx context.Context, conn *sql.DB, query string) ([]models.RawRecord, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []models.RawRecord
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := make(models.RawRecord, len(cols))
		for i, col := range cols {
			rec[col] = rawValue(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return records, nil
}

// rawValue converts a driver value into something the normalizer accepts.
func rawValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, fmt.Sprint(rawValue(p)))
		}
		return strings.Join(parts, ",")
	default:
		return v
	}
}
