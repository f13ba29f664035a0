// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator with the custom tags the
// data-quality rules need and translates failures into readable messages and
// the API error envelope.
//
// # Custom tags
//
//   - difficulty: easy, medium or hard
//   - interaction_type: view, like, attempt or rating
//   - loose_email: anything shaped like x@y.z
//
// # Usage
//
//	type HistoryRequest struct {
//	    Limit int `validate:"min=0,max=500"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator initializes the instance once; validator.Validate caches struct
// metadata and is safe for concurrent use.
package validation
