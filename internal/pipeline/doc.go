// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package pipeline runs aggregation end to end.
//
// A run loads the raw dataset from a source, normalizes it, builds the
// data-quality report, executes the aggregator catalog and publishes the
// resulting report. Input acquisition completes before any aggregator
// starts. A source failure (ErrSourceUnavailable) aborts the run and leaves
// the previously published report in place.
//
// Runner allows one run at a time. Manual triggers are throttled with a
// token bucket (golang.org/x/time/rate) and run in the background; startup
// and scheduled runs call Run directly.
//
// Completed reports are saved to a snapshot.Store and the payload cache is
// cleared so API clients see the new report immediately.
package pipeline
