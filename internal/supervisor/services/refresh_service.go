// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/pipeline"
)

// ReportRunner is the subset of *pipeline.Runner the refresh loop needs.
type ReportRunner interface {
	Run(ctx context.Context, trigger string) (*models.Report, error)
}

// RefreshService runs the pipeline once at startup and then on a fixed
// interval.
//
// Run failures are logged, not returned. The startup run happens once per
// process even if suture restarts Serve.
type RefreshService struct {
	runner   ReportRunner
	interval time.Duration
	startup  bool
	started  atomic.Bool
	name     string
}

// NewRefreshService creates a refresh loop. A zero interval disables the
// periodic runs; runOnStart triggers one run as soon as Serve starts.
func NewRefreshService(runner ReportRunner, interval time.Duration, runOnStart bool) *RefreshService {
	return &RefreshService{
		runner:   runner,
		interval: interval,
		startup:  runOnStart,
		name:     "refresh",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.startup && s.started.CompareAndSwap(false, true) {
		s.run(ctx, pipeline.TriggerStartup)
	}

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, pipeline.TriggerSchedule)
		}
	}
}

func (s *RefreshService) run(ctx context.Context, trigger string) {
	_, err := s.runner.Run(ctx, trigger)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrRunInProgress):
		logging.Debug().Str("trigger", trigger).Msg("Skipping refresh, run already in progress")
	case ctx.Err() != nil:
		// shutting down
	default:
		// The runner already logged the failure with its run ID.
		logging.Warn().Err(err).Str("trigger", trigger).Msg("Refresh run failed, serving previous report")
	}
}

// String names the service in suture log events.
func (s *RefreshService) String() string {
	return s.name
}
