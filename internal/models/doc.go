// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package models defines the data structures shared across Larder.

Model Categories:

1. Input Records:
  - RawRecord, RawDataset: loosely typed rows as delivered by a source
  - Recipe, Ingredient, Interaction, Step, User: normalized records
  - Dataset: the normalized record sets of one run
  - Measure: a numeric attribute that is present, absent or unparseable

2. Results:
  - ResultSet: the output contract of one aggregator (shape, status, entries)
  - Report: all result sets of one run plus run metadata
  - RunSummary: per-status counts of a report

3. Data Quality:
  - QualityIssue, QualitySummary, QualityReport

4. API Envelope:
  - APIResponse, Metadata, APIError

Measure semantics:

A missing attribute and an attribute that failed to parse are both absent for
aggregation, but they are kept distinct so quality checks and normalization
anomaly counts can tell them apart:

	m := models.Unparseable()
	m.IsPresent()     // false
	m.IsUnparseable() // true
	m.Or(0)           // 0

Thread Safety:

Models carry no internal locks. A Report is immutable once published by the
pipeline and is safe for concurrent reads.
*/
package models
