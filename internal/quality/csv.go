// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package quality

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tomtom215/larder/internal/models"
)

// CSVHeader is the column layout written by WriteCSV.
var CSVHeader = []string{"entity", "id", "issue"}

// WriteCSV writes the report issues as CSV with a header row. A clean
// report still produces the header.
func WriteCSV(w io.Writer, r *models.QualityReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write quality header: %w", err)
	}
	for _, issue := range r.Issues {
		if err := cw.Write([]string{issue.Entity, issue.ID, issue.Issue}); err != nil {
			return fmt.Errorf("write quality row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush quality report: %w", err)
	}
	return nil
}
