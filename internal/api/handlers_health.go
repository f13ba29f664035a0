// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/larder/internal/models"
)

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.ResponseSuccess,
		Data: map[string]interface{}{
			"status":         "alive",
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady reports whether a report can be served. It stays 503 until
// the first run completes or a snapshot is restored; a failed later run
// does not make the service unready because the previous report is kept.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.svc.Status()
	resp := &models.APIResponse{
		Status:   models.ResponseSuccess,
		Data:     status,
		Metadata: models.Metadata{Timestamp: time.Now(), RunID: status.LastRunID},
	}
	if !status.HasReport {
		resp.Status = models.ResponseError
		resp.Error = &models.APIError{Code: ErrCodeNoReport, Message: "No report available yet"}
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
