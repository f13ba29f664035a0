// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package snapshot persists run reports so the last good report survives
// restarts and a failed run. BadgerStore keeps history in BadgerDB with a
// retention count; MemoryStore is the non-durable fallback.
package snapshot
