// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

// Error codes used in APIError responses.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeNoReport         = "NO_REPORT"
	ErrCodeRunInProgress    = "RUN_IN_PROGRESS"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeSnapshot         = "SNAPSHOT_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
)
