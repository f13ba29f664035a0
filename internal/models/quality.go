// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package models

import "time"

// QualityIssue is a single data-quality finding.
type QualityIssue struct {
	// Entity is the record set the finding belongs to (recipe, ingredient, ...).
	Entity string `json:"entity"`

	// ID identifies the offending record. Ingredient and step findings use
	// the owning recipe ID, matching how those rows are keyed.
	ID string `json:"id"`

	// Issue is a human-readable description.
	Issue string `json:"issue"`
}

// QualitySummary aggregates a quality report.
type QualitySummary struct {
	RecordsChecked int            `json:"records_checked"`
	TotalIssues    int            `json:"total_issues"`
	ByEntity       map[string]int `json:"by_entity"`
}

// QualityReport is the data-quality assessment of one dataset.
type QualityReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     QualitySummary `json:"summary"`
	Issues      []QualityIssue `json:"issues"`
}
