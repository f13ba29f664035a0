// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package api provides the HTTP REST API for Larder.

The API is read-mostly: it serves the latest report produced by the
pipeline, its data-quality findings and the run history, and accepts
manual run triggers.

Endpoints (/api/v1):

  - GET  /health/live      process is up
  - GET  /health/ready     503 until a report is available
  - GET  /results          full latest report
  - GET  /results/{name}   one result set, 404 for an unknown name
  - GET  /catalog          aggregator names, shapes and descriptions
  - POST /runs             trigger a run (202, 409 while running, 429 when throttled)
  - GET  /runs/latest      runner status and summary of the latest report
  - GET  /runs/history     persisted run summaries, newest first (?limit=)
  - GET  /runs/{id}        a persisted report
  - GET  /quality          data-quality report (?format=json|csv)

Prometheus metrics are served at /metrics outside the /api/v1 prefix.

Response Format:

Every JSON response uses models.APIResponse. Result payloads are encoded
once per report and served from the payload cache until the next run
completes; metadata.cached marks a cache hit.

Middleware Stack:

RequestID, RealIP, AccessLog, Recoverer, PrometheusMetrics, CORS
(go-chi/cors) and per-IP rate limiting (go-chi/httprate). API routes also
get security headers and gzip compression.
*/
package api
