// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

import (
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/pipeline"
)

const defaultHistoryLimit = 20

// HistoryRequest holds the query parameters of GET /runs/history.
// A limit of 0 lists every persisted run.
type HistoryRequest struct {
	Limit int `validate:"min=0,max=500"`
}

// Quality report formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// QualityRequest holds the query parameters of GET /quality.
type QualityRequest struct {
	Format string `validate:"omitempty,oneof=json csv"`
}

// RunStatusResponse is returned by GET /runs/latest. Summary is omitted
// until a report exists.
type RunStatusResponse struct {
	Runner  pipeline.Status    `json:"runner"`
	Summary *models.RunSummary `json:"summary,omitempty"`
}

// TriggerResponse is returned by POST /runs.
type TriggerResponse struct {
	RunID   string `json:"run_id"`
	Trigger string `json:"trigger"`
}

// HistoryResponse is returned by GET /runs/history.
type HistoryResponse struct {
	Runs  []models.RunSummary `json:"runs"`
	Count int                 `json:"count"`
}
