// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package middleware provides HTTP middleware shared by the API router.
//
//   - RequestID: request and correlation IDs in the header and context
//   - PrometheusMetrics: request count, latency and in-flight gauge labelled
//     by chi route pattern
//   - AccessLog: one structured zerolog line per request
//
// All middleware has the chi signature func(http.Handler) http.Handler.
// RequestID must run first so the others see the IDs.
package middleware
