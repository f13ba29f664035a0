// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/larder/internal/metrics"
	"github.com/tomtom215/larder/internal/models"
)

// stubSource returns err from Load when set, otherwise an empty dataset.
type stubSource struct {
	name   string
	err    error
	calls  atomic.Int32
	closed bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(context.Context) (*models.RawDataset, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &models.RawDataset{Recipes: []models.RawRecord{{"id": "r1"}}}, nil
}

func (s *stubSource) Close() error {
	s.closed = true
	return nil
}

func testBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

func TestBreakerSource_PassesThrough(t *testing.T) {
	inner := &stubSource{name: "test-pass"}
	b := NewBreakerSourceWithSettings(inner, testBreakerSettings())

	ds, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Recipes) != 1 {
		t.Errorf("Recipes = %d, want 1", len(ds.Recipes))
	}
	if b.Name() != "test-pass" {
		t.Errorf("Name() = %q, want inner name", b.Name())
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerSource_TripsOpen(t *testing.T) {
	backendErr := errors.New("connection refused")
	inner := &stubSource{name: "test-trip", err: backendErr}
	b := NewBreakerSourceWithSettings(inner, testBreakerSettings())

	for i := 0; i < 3; i++ {
		if _, err := b.Load(context.Background()); !errors.Is(err, backendErr) {
			t.Fatalf("load %d error = %v, want backend error", i, err)
		}
	}

	if b.State() != "open" {
		t.Fatalf("State() = %q, want open after 3 failures", b.State())
	}

	_, err := b.Load(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Load() error = %v, want ErrOpenState", err)
	}
	if inner.calls.Load() != 3 {
		t.Errorf("inner calls = %d, want 3 (open breaker must not call through)", inner.calls.Load())
	}

	name := "source-test-trip"
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("state gauge = %v, want 2 (open)", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
}

func TestBreakerSource_CancellationDoesNotTrip(t *testing.T) {
	inner := &stubSource{name: "test-cancel", err: context.Canceled}
	b := NewBreakerSourceWithSettings(inner, testBreakerSettings())

	for i := 0; i < 5; i++ {
		_, _ = b.Load(context.Background())
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerSource_Close(t *testing.T) {
	inner := &stubSource{name: "test-close"}
	b := NewBreakerSource(inner)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !inner.closed {
		t.Error("Close() did not reach the wrapped source")
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
