// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package quality produces the data-quality report for a normalized dataset.
//
// Per-record rules are validator struct tags (see internal/validation for the
// custom difficulty, interaction_type and loose_email tags). Rules spanning
// record sets, such as a recipe without ingredients, are checked with join
// indexes. Ingredient and step issues carry the owning recipe ID.
//
// The report never blocks aggregation; it is informational and is served at
// /api/v1/quality and written as CSV by the larder CLI.
package quality
