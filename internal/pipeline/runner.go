// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tomtom215/larder/internal/aggregate"
	"github.com/tomtom215/larder/internal/cache"
	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/metrics"
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/normalize"
	"github.com/tomtom215/larder/internal/quality"
	"github.com/tomtom215/larder/internal/snapshot"
	"github.com/tomtom215/larder/internal/source"
)

var (
	// ErrSourceUnavailable wraps every input acquisition failure. No
	// aggregator runs and the previous report stays served.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRunInProgress is returned when a run is requested while another
	// one has not finished.
	ErrRunInProgress = errors.New("run already in progress")

	// ErrThrottled is returned when manual triggers exceed the configured rate.
	ErrThrottled = errors.New("run trigger throttled")

	// ErrNoReport means no run has completed and no snapshot was restored.
	ErrNoReport = errors.New("no report available")
)

// Run triggers.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerCLI      = "cli"
)

// Config wires a Runner.
type Config struct {
	Source source.Source
	Engine *aggregate.Engine

	// Store persists completed reports. Nil keeps reports in memory only.
	Store snapshot.Store

	// Cache is cleared after every completed run. Optional.
	Cache *cache.Cache

	// LoadTimeout bounds input acquisition. Zero means no separate bound.
	LoadTimeout time.Duration

	// RunTimeout bounds the whole run, load included. Zero means no bound.
	RunTimeout time.Duration

	// TriggerRate and TriggerBurst throttle manual triggers.
	TriggerRate  float64
	TriggerBurst int
}

// Status describes the runner for health and status endpoints.
type Status struct {
	Running     bool       `json:"running"`
	HasReport   bool       `json:"has_report"`
	LastRunID   string     `json:"last_run_id,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	LastTrigger string     `json:"last_trigger,omitempty"`
	SourceName  string     `json:"source"`
	Aggregators int        `json:"aggregators"`
}

// Runner executes aggregation runs: load, normalize, check quality,
// aggregate, persist. At most one run executes at a time.
type Runner struct {
	cfg     Config
	limiter *rate.Limiter
	log     *logging.RunLogger

	running atomic.Bool

	// base is the parent of asynchronous runs; Close cancels it.
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	latest      *models.Report
	quality     *models.QualityReport
	lastAttempt time.Time
	lastTrigger string
	lastErr     error
}

// NewRunner creates a runner. Source and Engine are required.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline: source is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("pipeline: engine is required")
	}
	if cfg.TriggerRate <= 0 {
		cfg.TriggerRate = 0.2
	}
	if cfg.TriggerBurst < 1 {
		cfg.TriggerBurst = 1
	}

	base, cancel := context.WithCancel(context.Background())
	return &Runner{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.TriggerRate), cfg.TriggerBurst),
		log:     logging.NewRunLogger(),
		base:    base,
		cancel:  cancel,
	}, nil
}

// Run executes one run synchronously and returns its report.
// It returns ErrRunInProgress if another run holds the runner.
func (r *Runner) Run(ctx context.Context, trigger string) (*models.Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		metrics.RecordRunRejected("in_progress")
		return nil, ErrRunInProgress
	}
	defer r.running.Store(false)

	return r.execute(ctx, uuid.New().String(), trigger)
}

// Trigger starts a manual run in the background and returns its run ID.
// Manual triggers are rate limited; a rejected trigger does not disturb a
// run already in flight.
func (r *Runner) Trigger() (string, error) {
	if r.running.Load() {
		metrics.RecordRunRejected("in_progress")
		return "", ErrRunInProgress
	}
	if !r.limiter.Allow() {
		metrics.RecordRunRejected("throttled")
		return "", ErrThrottled
	}
	if !r.running.CompareAndSwap(false, true) {
		metrics.RecordRunRejected("in_progress")
		return "", ErrRunInProgress
	}

	runID := uuid.New().String()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)
		// Failures are recorded in Status and logged by execute.
		_, _ = r.execute(r.base, runID, TriggerManual)
	}()
	return runID, nil
}

// Close cancels background runs and waits for them to return.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

// Running reports whether a run is executing.
func (r *Runner) Running() bool {
	return r.running.Load()
}

func (r *Runner) execute(ctx context.Context, runID, trigger string) (*models.Report, error) {
	start := time.Now()
	ctx = logging.ContextWithRunID(ctx, runID)
	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("pipeline").With().Str("run_id", runID).Logger())

	if r.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.RunTimeout)
		defer cancel()
	}

	r.log.LogRunStarted(ctx, r.cfg.Source.Name(), trigger)

	report, qr, err := r.produce(ctx, runID, start)
	elapsed := time.Since(start)
	metrics.RecordRun(trigger, elapsed, err)

	r.mu.Lock()
	r.lastAttempt = start
	r.lastTrigger = trigger
	r.lastErr = err
	if err == nil {
		r.latest = report
		r.quality = qr
	}
	r.mu.Unlock()

	if err != nil {
		r.log.LogRunFailed(ctx, err, elapsed)
		return nil, err
	}

	if r.cfg.Cache != nil {
		r.cfg.Cache.Clear()
	}

	s := report.Summary()
	r.log.LogRunCompleted(ctx, s.OK, s.NoResult, s.Failed, elapsed)
	return report, nil
}

// produce runs the stages of one run. Nothing is published until every
// stage has succeeded.
func (r *Runner) produce(ctx context.Context, runID string, start time.Time) (*models.Report, *models.QualityReport, error) {
	raw, err := r.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	counts := raw.Counts()
	metrics.SetRecordsLoaded(counts)

	ds, stats := normalize.Dataset(raw)
	metrics.SetNormalizationAnomalies(stats.MissingKeys, stats.UnparseableValues)
	r.log.LogNormalization(ctx, stats.MissingKeys, stats.UnparseableValues)

	qr := quality.Check(ds)
	metrics.SetQualityIssues(qr.Summary.ByEntity)
	if qr.Summary.TotalIssues > 0 {
		logging.Ctx(ctx).Info().
			Int("issues", qr.Summary.TotalIssues).
			Interface("by_entity", qr.Summary.ByEntity).
			Msg("Data-quality issues found")
	}

	results, err := r.cfg.Engine.Run(ctx, ds)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregation: %w", err)
	}

	report := &models.Report{
		RunID:        runID,
		Source:       r.cfg.Source.Name(),
		StartedAt:    start.UTC(),
		CompletedAt:  time.Now().UTC(),
		RecordCounts: counts,
		Results:      results,
	}

	if r.cfg.Store != nil {
		if err := r.cfg.Store.Save(ctx, report); err != nil {
			// The report is still served from memory.
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to persist report snapshot")
		}
	}
	return report, qr, nil
}

func (r *Runner) load(ctx context.Context) (*models.RawDataset, error) {
	loadCtx := ctx
	if r.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, r.cfg.LoadTimeout)
		defer cancel()
	}

	name := r.cfg.Source.Name()
	start := time.Now()
	raw, err := r.cfg.Source.Load(loadCtx)
	elapsed := time.Since(start)
	metrics.RecordSourceLoad(name, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
	}
	if raw == nil {
		raw = &models.RawDataset{}
	}

	r.log.LogSourceLoaded(ctx, name, raw.Counts(), elapsed)
	return raw, nil
}

// Restore seeds the in-memory report from the snapshot store so a restart
// serves the last good report before the first run completes.
func (r *Runner) Restore(ctx context.Context) error {
	if r.cfg.Store == nil {
		return nil
	}
	report, err := r.cfg.Store.Latest(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore latest snapshot: %w", err)
	}

	r.mu.Lock()
	if r.latest == nil {
		r.latest = report
	}
	r.mu.Unlock()

	logging.Info().Str("run_id", report.RunID).Time("started_at", report.StartedAt).Msg("Restored report snapshot")
	return nil
}

// Latest returns the most recent completed report.
func (r *Runner) Latest() (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return nil, ErrNoReport
	}
	return r.latest, nil
}

// Result returns one result set of the latest report.
// The boolean is false when the report has no aggregator of that name.
func (r *Runner) Result(name string) (models.ResultSet, bool, error) {
	report, err := r.Latest()
	if err != nil {
		return models.ResultSet{}, false, err
	}
	rs, ok := report.Result(name)
	return rs, ok, nil
}

// Quality returns the data-quality report of the last loaded dataset.
func (r *Runner) Quality() (*models.QualityReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.quality == nil {
		return nil, ErrNoReport
	}
	return r.quality, nil
}

// History lists persisted runs, newest first. Without a store only the
// in-memory report is listed.
func (r *Runner) History(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if r.cfg.Store != nil {
		return r.cfg.Store.List(ctx, limit)
	}
	report, err := r.Latest()
	if errors.Is(err, ErrNoReport) {
		return []models.RunSummary{}, nil
	}
	return []models.RunSummary{report.Summary()}, nil
}

// Snapshot returns a persisted report by run ID.
func (r *Runner) Snapshot(ctx context.Context, runID string) (*models.Report, error) {
	if r.cfg.Store == nil {
		if report, err := r.Latest(); err == nil && report.RunID == runID {
			return report, nil
		}
		return nil, snapshot.ErrNotFound
	}
	return r.cfg.Store.Get(ctx, runID)
}

// Catalog returns the aggregators the runner executes.
func (r *Runner) Catalog() []aggregate.Definition {
	return r.cfg.Engine.Definitions()
}

// Status returns the runner status.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Status{
		Running:     r.running.Load(),
		HasReport:   r.latest != nil,
		LastTrigger: r.lastTrigger,
		SourceName:  r.cfg.Source.Name(),
		Aggregators: len(r.cfg.Engine.Definitions()),
	}
	if !r.lastAttempt.IsZero() {
		attempt := r.lastAttempt
		s.LastAttempt = &attempt
	}
	if r.latest != nil {
		s.LastRunID = r.latest.RunID
		success := r.latest.CompletedAt
		s.LastSuccess = &success
	}
	if r.lastErr != nil {
		s.LastError = r.lastErr.Error()
	}
	return s
}
