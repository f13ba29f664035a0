// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package cache provides a TTL cache of encoded API payloads.
//
// Handlers ask for a payload by key and supply a builder; the first request
// encodes the value with goccy/go-json and later requests are served from
// memory until the entry expires or the pipeline clears the cache after a
// completed run.
//
// # Usage
//
//	c := cache.New(cfg.Cache.TTL)
//	defer c.Close()
//
//	body, err := c.Payload(cache.GenerateKey("results", name), func() (any, error) {
//	    return lookup(name)
//	})
//
// # Metrics
//
// Hits, misses and the entry count are exported through internal/metrics.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package cache
