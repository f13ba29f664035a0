// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomtom215/larder/internal/models"
)

// CSVSource reads flat CSV tables with a header row from a directory.
// Cell values are delivered as strings; the normalizer coerces them.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a CSV source over dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (*models.RawDataset, error) {
	return loadFiles(ctx, s.dir, ".csv", func(_ context.Context, path string) ([]models.RawRecord, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	})
}

// ReadCSV parses a header-led CSV stream into records. Ragged rows are
// tolerated: missing trailing cells are left out of the record, extra
// cells without a header are dropped.
func ReadCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []models.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", len(records)+2, err)
		}

		rec := make(models.RawRecord, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if _, dup := rec[header[i]]; dup {
				continue
			}
			rec[header[i]] = cell
		}
		records = append(records, rec)
	}
	return records, nil
}
