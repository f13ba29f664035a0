// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package snapshot

import (
	"context"
	"errors"

	"github.com/tomtom215/larder/internal/models"
)

// ErrNotFound is returned when no report matches the request.
var ErrNotFound = errors.New("snapshot not found")

// Store persists run reports.
type Store interface {
	// Save stores report and makes it the latest.
	Save(ctx context.Context, report *models.Report) error

	// Latest returns the most recently saved report.
	Latest(ctx context.Context) (*models.Report, error)

	// Get returns the report of a specific run.
	Get(ctx context.Context, runID string) (*models.Report, error)

	// List returns run summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.RunSummary, error)

	// Clear removes every stored report.
	Clear(ctx context.Context) error

	Close() error
}
