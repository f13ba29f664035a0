// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package models

import (
	"time"
)

// API response statuses.
const (
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// APIResponse is the envelope every HTTP endpoint returns.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"name": "average-rating", "shape": "scalar", "status": "ok", "scalar": {"value": 4.5}},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "run_id": "1f0c...",
//	    "cached": true
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "Unknown result set: top-chefs"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
//
// Fields:
//   - Timestamp: Server time when the response was generated
//   - RunID: Run that produced the served report, when there is one
//   - QueryTimeMS: Time spent building the payload (0 if cached)
//   - Cached: Whether the payload was served from the cache (omitted if false)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RunID       string    `json:"run_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error of a failed request.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid query parameters
//   - NOT_FOUND: Unknown result set or run
//   - NO_REPORT: No run has completed yet
//   - RUN_IN_PROGRESS: A run is already executing
//   - RATE_LIMIT_EXCEEDED: Too many requests or run triggers
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
