// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"errors"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/metrics"
	"github.com/tomtom215/larder/internal/models"
)

// BreakerSettings tunes a BreakerSource. Zero values take the defaults
// used by NewBreakerSource.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings returns the production breaker configuration:
//   - 1 probe load in half-open state
//   - 10 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens after 3 loads with at least 60% failures
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     10 * time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// BreakerSource wraps a Source with the circuit breaker pattern so a failing
// backend is not hammered by periodic and manual refreshes.
//
// The breaker uses real time for its interval and timeout; tests trip it
// through request counts, not by waiting.
type BreakerSource struct {
	inner Source
	cb    *gobreaker.CircuitBreaker[*models.RawDataset]
	name  string
}

// NewBreakerSource wraps inner with DefaultBreakerSettings.
func NewBreakerSource(inner Source) *BreakerSource {
	return NewBreakerSourceWithSettings(inner, DefaultBreakerSettings())
}

// NewBreakerSourceWithSettings wraps inner with explicit settings.
func NewBreakerSourceWithSettings(inner Source, s BreakerSettings) *BreakerSource {
	cbName := "source-" + inner.Name()

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	logger := logging.WithComponent("source-breaker")

	cb := gobreaker.NewCircuitBreaker[*models.RawDataset](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logger.Warn().
					Str("breaker", cbName).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
			}
			return shouldTrip
		},

		// Cancellation by the caller says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerSource{inner: inner, cb: cb, name: cbName}
}

// Name implements Source. The wrapped source's name is reported so
// metrics and logs stay keyed by the backend.
func (b *BreakerSource) Name() string { return b.inner.Name() }

// State returns the current breaker state as a string.
func (b *BreakerSource) State() string { return stateToString(b.cb.State()) }

// Load implements Source with circuit breaker protection.
func (b *BreakerSource) Load(ctx context.Context) (*models.RawDataset, error) {
	ds, err := b.cb.Execute(func() (*models.RawDataset, error) {
		return b.inner.Load(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("breaker", b.name).Msg("Source load rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return ds, nil
}

// Close closes the wrapped source when it holds resources.
func (b *BreakerSource) Close() error {
	if c, ok := b.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
