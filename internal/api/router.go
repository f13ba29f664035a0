// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/larder/internal/middleware"
)

// NewRouter builds the chi router with the full middleware stack.
//
// Middleware order:
//  1. RequestID (request and correlation IDs for logging)
//  2. RealIP (so rate limiting keys on the client address)
//  3. AccessLog
//  4. Recoverer
//  5. PrometheusMetrics
//  6. CORS
func NewRouter(h *Handler, mwConfig *ChiMiddlewareConfig) http.Handler {
	mw := NewChiMiddleware(mwConfig)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(mw.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Route("/health", func(r chi.Router) {
			r.Use(mw.RateLimitHealth())
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Use(chimiddleware.Compress(5))

			r.Get("/results", h.Results)
			r.Get("/results/{name}", h.Result)
			r.Get("/catalog", h.Catalog)
			r.Get("/quality", h.Quality)

			r.Route("/runs", func(r chi.Router) {
				r.Post("/", h.TriggerRun)
				r.Get("/latest", h.LatestRun)
				r.Get("/history", h.RunHistory)
				r.Get("/{id}", h.RunByID)
			})
		})
	})

	return r
}
