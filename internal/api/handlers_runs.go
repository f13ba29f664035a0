// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/larder/internal/cache"
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/pipeline"
	"github.com/tomtom215/larder/internal/snapshot"
)

// TriggerRun starts a manual run in the background. The run ID is returned
// immediately; its outcome shows up in /runs/latest.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	runID, err := h.svc.Trigger()
	switch {
	case errors.Is(err, pipeline.ErrRunInProgress):
		respondError(w, http.StatusConflict, ErrCodeRunInProgress, "A run is already in progress", nil)
		return
	case errors.Is(err, pipeline.ErrThrottled):
		w.Header().Set("Retry-After", "5")
		respondError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "Run triggers are throttled, retry later", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to start run", err)
		return
	}

	w.Header().Set("Location", "/api/v1/runs/"+runID)
	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   models.ResponseSuccess,
		Data:     TriggerResponse{RunID: runID, Trigger: pipeline.TriggerManual},
		Metadata: models.Metadata{Timestamp: time.Now(), RunID: runID},
	})
}

// LatestRun reports the runner status and the summary of the served report.
func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	resp := RunStatusResponse{Runner: h.svc.Status()}
	meta := models.Metadata{Timestamp: time.Now()}

	if report, err := h.svc.Latest(); err == nil {
		summary := report.Summary()
		resp.Summary = &summary
		meta.RunID = report.RunID
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   models.ResponseSuccess,
		Data:     resp,
		Metadata: meta,
	})
}

// RunHistory lists persisted run summaries, newest first.
func (h *Handler) RunHistory(w http.ResponseWriter, r *http.Request) {
	req := HistoryRequest{Limit: getIntParam(r, "limit", defaultHistoryLimit)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	runs, err := h.svc.History(r.Context(), req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeSnapshot, "Failed to list runs", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   models.ResponseSuccess,
		Data:     HistoryResponse{Runs: runs, Count: len(runs)},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// RunByID serves a persisted report.
func (h *Handler) RunByID(w http.ResponseWriter, r *http.Request) {
	runID := urlParam(r, "id")

	meta := models.Metadata{RunID: runID}
	data, err := h.payload(cache.GenerateKey("snapshot", runID), &meta, func() (any, error) {
		return h.svc.Snapshot(r.Context(), runID)
	})
	if errors.Is(err, snapshot.ErrNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Unknown run: "+sanitizeLogValue(runID), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeSnapshot, "Failed to read run", err)
		return
	}
	respondPayload(w, data, meta)
}
