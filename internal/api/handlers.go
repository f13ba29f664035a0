// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/larder/internal/aggregate"
	"github.com/tomtom215/larder/internal/cache"
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/pipeline"
)

// Service is the part of the pipeline runner the API serves.
type Service interface {
	Latest() (*models.Report, error)
	Quality() (*models.QualityReport, error)
	History(ctx context.Context, limit int) ([]models.RunSummary, error)
	Snapshot(ctx context.Context, runID string) (*models.Report, error)
	Catalog() []aggregate.Definition
	Status() pipeline.Status
	Trigger() (string, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	svc       Service
	cache     *cache.Cache
	startTime time.Time
}

// NewHandler creates the API handlers. The cache is optional; without it
// every payload is encoded per request.
func NewHandler(svc Service, c *cache.Cache) *Handler {
	return &Handler{
		svc:       svc,
		cache:     c,
		startTime: time.Now(),
	}
}

// payload returns the encoded value produced by build, from the cache when
// possible, and fills in the timing metadata.
func (h *Handler) payload(key string, meta *models.Metadata, build func() (any, error)) ([]byte, error) {
	start := time.Now()
	meta.Timestamp = start

	if h.cache == nil {
		v, err := build()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		meta.QueryTimeMS = time.Since(start).Milliseconds()
		return data, err
	}

	data, cached, err := h.cache.Payload(key, build)
	if err != nil {
		return nil, err
	}
	meta.Cached = cached
	if !cached {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return data, nil
}

// latestReport writes 503 NO_REPORT and returns nil when no run has completed.
func (h *Handler) latestReport(w http.ResponseWriter) *models.Report {
	report, err := h.svc.Latest()
	if errors.Is(err, pipeline.ErrNoReport) {
		respondError(w, http.StatusServiceUnavailable, ErrCodeNoReport, "No report available yet", nil)
		return nil
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to read report", err)
		return nil
	}
	return report
}

// Results serves the full latest report.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	report := h.latestReport(w)
	if report == nil {
		return
	}

	meta := models.Metadata{RunID: report.RunID}
	data, err := h.payload(cache.GenerateKey("results", report.RunID), &meta, func() (any, error) {
		return report, nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to encode report", err)
		return
	}
	respondPayload(w, data, meta)
}

// Result serves one result set of the latest report.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	report := h.latestReport(w)
	if report == nil {
		return
	}

	rs, ok := report.Result(name)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Unknown result set: "+sanitizeLogValue(name), nil)
		return
	}

	meta := models.Metadata{RunID: report.RunID}
	data, err := h.payload(cache.GenerateKey("result", []string{report.RunID, name}), &meta, func() (any, error) {
		return rs, nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to encode result set", err)
		return
	}
	respondPayload(w, data, meta)
}

// Catalog lists the aggregators in run order.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   models.ResponseSuccess,
		Data:     h.svc.Catalog(),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Quality serves the data-quality report as JSON or CSV.
func (h *Handler) Quality(w http.ResponseWriter, r *http.Request) {
	req := QualityRequest{Format: r.URL.Query().Get("format")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	report, err := h.svc.Quality()
	if errors.Is(err, pipeline.ErrNoReport) {
		respondError(w, http.StatusServiceUnavailable, ErrCodeNoReport, "No quality report available yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to read quality report", err)
		return
	}

	if req.Format == FormatCSV {
		respondQualityCSV(w, report)
		return
	}

	var meta models.Metadata
	key := cache.GenerateKey("quality", report.GeneratedAt.UnixNano())
	data, err := h.payload(key, &meta, func() (any, error) {
		return report, nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to encode quality report", err)
		return
	}
	respondPayload(w, data, meta)
}
