// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/larder/internal/aggregate"
	"github.com/tomtom215/larder/internal/cache"
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/pipeline"
	"github.com/tomtom215/larder/internal/snapshot"
)

// fakeService is an in-memory Service.
type fakeService struct {
	mu         sync.Mutex
	report     *models.Report
	quality    *models.QualityReport
	history    []models.RunSummary
	historyErr error
	triggerErr error
	triggered  int
	lastLimit  int
}

func (f *fakeService) Latest() (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.report == nil {
		return nil, pipeline.ErrNoReport
	}
	return f.report, nil
}

func (f *fakeService) Quality() (*models.QualityReport, error) {
	if f.quality == nil {
		return nil, pipeline.ErrNoReport
	}
	return f.quality, nil
}

func (f *fakeService) History(_ context.Context, limit int) ([]models.RunSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeService) Snapshot(_ context.Context, runID string) (*models.Report, error) {
	if f.report != nil && f.report.RunID == runID {
		return f.report, nil
	}
	return nil, snapshot.ErrNotFound
}

func (f *fakeService) Catalog() []aggregate.Definition {
	return aggregate.Catalog(aggregate.DefaultOptions())
}

func (f *fakeService) Status() pipeline.Status {
	s := pipeline.Status{SourceName: "fake", Aggregators: len(f.Catalog())}
	if f.report != nil {
		s.HasReport = true
		s.LastRunID = f.report.RunID
	}
	return s
}

func (f *fakeService) Trigger() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.triggerErr != nil {
		return "", f.triggerErr
	}
	f.triggered++
	return "run-manual-1", nil
}

func sampleReport() *models.Report {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Report{
		RunID:        "run-1",
		Source:       "fake",
		StartedAt:    start,
		CompletedAt:  start.Add(250 * time.Millisecond),
		RecordCounts: map[string]int{"recipe": 2},
		Results: []models.ResultSet{
			{Name: "average-rating", Shape: models.ShapeScalar, Status: models.StatusOK, Scalar: &models.Scalar{Value: 4.5}},
			{Name: "prep-time-range", Shape: models.ShapePaired, Status: models.StatusNoResult, Reason: "insufficient data"},
		},
	}
}

func sampleQuality() *models.QualityReport {
	return &models.QualityReport{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary: models.QualitySummary{
			RecordsChecked: 3,
			TotalIssues:    1,
			ByEntity:       map[string]int{"recipe": 1},
		},
		Issues: []models.QualityIssue{{Entity: "recipe", ID: "r2", Issue: "Invalid difficulty 'extreme'"}},
	}
}

type testEnv struct {
	svc    *fakeService
	cache  *cache.Cache
	router http.Handler
}

func newTestEnv(t *testing.T, svc *fakeService) *testEnv {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Close)

	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = []string{"https://kitchen.example"}
	mwConfig.RateLimitDisabled = true

	return &testEnv{
		svc:    svc,
		cache:  c,
		router: NewRouter(NewHandler(svc, c), mwConfig),
	}
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestHealthEndpoints(t *testing.T) {
	svc := &fakeService{}
	env := newTestEnv(t, svc)

	rec := env.do(t, http.MethodGet, "/api/v1/health/live")
	if rec.Code != http.StatusOK {
		t.Fatalf("live status = %d, want 200", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready without report = %d, want 503", rec.Code)
	}
	if e := decode(t, rec); e.Error == nil || e.Error.Code != ErrCodeNoReport {
		t.Errorf("ready error = %+v, want %s", e.Error, ErrCodeNoReport)
	}

	svc.report = sampleReport()
	rec = env.do(t, http.MethodGet, "/api/v1/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready with report = %d, want 200", rec.Code)
	}
	if e := decode(t, rec); e.Metadata.RunID != "run-1" {
		t.Errorf("ready run_id = %q", e.Metadata.RunID)
	}
}

func TestResults(t *testing.T) {
	t.Run("no report", func(t *testing.T) {
		env := newTestEnv(t, &fakeService{})
		rec := env.do(t, http.MethodGet, "/api/v1/results")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("full report cached per run", func(t *testing.T) {
		env := newTestEnv(t, &fakeService{report: sampleReport()})

		first := env.do(t, http.MethodGet, "/api/v1/results")
		if first.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", first.Code)
		}
		e := decode(t, first)
		if e.Status != models.ResponseSuccess || e.Metadata.Cached {
			t.Errorf("first response status=%q cached=%v", e.Status, e.Metadata.Cached)
		}
		var report models.Report
		if err := json.Unmarshal(e.Data, &report); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if report.RunID != "run-1" || len(report.Results) != 2 {
			t.Errorf("report = %+v", report)
		}

		second := decode(t, env.do(t, http.MethodGet, "/api/v1/results"))
		if !second.Metadata.Cached {
			t.Error("second response should be served from cache")
		}
		if string(second.Data) != string(e.Data) {
			t.Error("cached payload differs from the first response")
		}
	})
}

func TestResultByName(t *testing.T) {
	env := newTestEnv(t, &fakeService{report: sampleReport()})

	rec := env.do(t, http.MethodGet, "/api/v1/results/average-rating")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rs models.ResultSet
	if err := json.Unmarshal(decode(t, rec).Data, &rs); err != nil {
		t.Fatal(err)
	}
	if rs.Scalar == nil || rs.Scalar.Value != 4.5 {
		t.Errorf("average-rating = %+v", rs)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/results/prep-time-range")
	if rec.Code != http.StatusOK {
		t.Fatalf("no_result set status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(decode(t, rec).Data, &rs); err != nil {
		t.Fatal(err)
	}
	if rs.Status != models.StatusNoResult || len(rs.Entries) != 0 {
		t.Errorf("prep-time-range = %+v", rs)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/results/top-chefs")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown name status = %d, want 404", rec.Code)
	}
	if e := decode(t, rec); e.Error == nil || e.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown name error = %+v", e.Error)
	}
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t, &fakeService{})
	rec := env.do(t, http.MethodGet, "/api/v1/catalog")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var defs []map[string]interface{}
	if err := json.Unmarshal(decode(t, rec).Data, &defs); err != nil {
		t.Fatal(err)
	}
	if len(defs) != len(aggregate.Catalog(aggregate.DefaultOptions())) {
		t.Errorf("catalog has %d entries", len(defs))
	}
	for _, d := range defs {
		if d["name"] == "" || d["shape"] == "" {
			t.Errorf("incomplete catalog entry %v", d)
		}
		if _, ok := d["Run"]; ok {
			t.Error("catalog leaks the aggregator func")
		}
	}
}

func TestTriggerRun(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"accepted", nil, http.StatusAccepted, ""},
		{"in progress", pipeline.ErrRunInProgress, http.StatusConflict, ErrCodeRunInProgress},
		{"throttled", pipeline.ErrThrottled, http.StatusTooManyRequests, ErrCodeRateLimited},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeService{triggerErr: tt.err})
			rec := env.do(t, http.MethodPost, "/api/v1/runs")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			e := decode(t, rec)
			if tt.wantCode == "" {
				var resp TriggerResponse
				if err := json.Unmarshal(e.Data, &resp); err != nil {
					t.Fatal(err)
				}
				if resp.RunID != "run-manual-1" || resp.Trigger != pipeline.TriggerManual {
					t.Errorf("trigger response = %+v", resp)
				}
				if loc := rec.Header().Get("Location"); loc != "/api/v1/runs/run-manual-1" {
					t.Errorf("Location = %q", loc)
				}
				return
			}
			if e.Error == nil || e.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", e.Error, tt.wantCode)
			}
		})
	}
}

func TestTriggerRun_GetNotAllowed(t *testing.T) {
	env := newTestEnv(t, &fakeService{})
	rec := env.do(t, http.MethodDelete, "/api/v1/runs")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestLatestRun(t *testing.T) {
	svc := &fakeService{}
	env := newTestEnv(t, svc)

	var resp RunStatusResponse
	if err := json.Unmarshal(decode(t, env.do(t, http.MethodGet, "/api/v1/runs/latest")).Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Summary != nil || resp.Runner.HasReport {
		t.Errorf("latest without report = %+v", resp)
	}

	svc.report = sampleReport()
	resp = RunStatusResponse{}
	if err := json.Unmarshal(decode(t, env.do(t, http.MethodGet, "/api/v1/runs/latest")).Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Summary == nil {
		t.Fatal("summary missing")
	}
	if resp.Summary.OK != 1 || resp.Summary.NoResult != 1 || resp.Summary.DurationMS != 250 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

func TestRunHistory(t *testing.T) {
	svc := &fakeService{history: []models.RunSummary{{RunID: "run-2"}, {RunID: "run-1"}}}
	env := newTestEnv(t, svc)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"default limit", "", http.StatusOK, defaultHistoryLimit},
		{"explicit limit", "?limit=5", http.StatusOK, 5},
		{"all", "?limit=0", http.StatusOK, 0},
		{"unparseable falls back", "?limit=abc", http.StatusOK, defaultHistoryLimit},
		{"negative", "?limit=-1", http.StatusBadRequest, 0},
		{"too large", "?limit=501", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/runs/history"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if e := decode(t, rec); e.Error == nil || e.Error.Code != ErrCodeValidation {
					t.Errorf("error = %+v, want %s", e.Error, ErrCodeValidation)
				}
				return
			}
			if svc.lastLimit != tt.wantLimit {
				t.Errorf("limit passed = %d, want %d", svc.lastLimit, tt.wantLimit)
			}
			var resp HistoryResponse
			if err := json.Unmarshal(decode(t, rec).Data, &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Count != 2 || resp.Runs[0].RunID != "run-2" {
				t.Errorf("history = %+v", resp)
			}
		})
	}
}

func TestRunHistory_StoreError(t *testing.T) {
	env := newTestEnv(t, &fakeService{historyErr: errors.New("badger closed")})
	rec := env.do(t, http.MethodGet, "/api/v1/runs/history")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if e := decode(t, rec); e.Error == nil || e.Error.Code != ErrCodeSnapshot {
		t.Errorf("error = %+v", e.Error)
	}
}

func TestRunByID(t *testing.T) {
	env := newTestEnv(t, &fakeService{report: sampleReport()})

	rec := env.do(t, http.MethodGet, "/api/v1/runs/run-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if e := decode(t, rec); e.Metadata.RunID != "run-1" {
		t.Errorf("run_id = %q", e.Metadata.RunID)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/runs/run-404")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown run status = %d, want 404", rec.Code)
	}
	if env.cache.Len() != 1 {
		t.Errorf("cache entries = %d, a miss must not be cached", env.cache.Len())
	}
}

func TestQuality(t *testing.T) {
	svc := &fakeService{}
	env := newTestEnv(t, svc)

	if rec := env.do(t, http.MethodGet, "/api/v1/quality"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no report status = %d, want 503", rec.Code)
	}

	svc.quality = sampleQuality()

	rec := env.do(t, http.MethodGet, "/api/v1/quality")
	if rec.Code != http.StatusOK {
		t.Fatalf("json status = %d", rec.Code)
	}
	var q models.QualityReport
	if err := json.Unmarshal(decode(t, rec).Data, &q); err != nil {
		t.Fatal(err)
	}
	if q.Summary.TotalIssues != 1 || q.Issues[0].ID != "r2" {
		t.Errorf("quality = %+v", q)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/quality?format=csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(rec.Body)
	want := "entity,id,issue\nrecipe,r2,Invalid difficulty 'extreme'\n"
	if string(body) != want {
		t.Errorf("csv body = %q, want %q", body, want)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/quality?format=xml")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d, want 400", rec.Code)
	}
}

func TestRouterMiddleware(t *testing.T) {
	env := newTestEnv(t, &fakeService{})

	rec := env.do(t, http.MethodGet, "/api/v1/catalog")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/results", nil)
	req.Header.Set("Origin", "https://kitchen.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://kitchen.example" {
		t.Errorf("CORS allow origin = %q", got)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/nowhere")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "larder_") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.RateLimitRequests = 2
	mwConfig.RateLimitWindow = time.Minute
	router := NewRouter(NewHandler(&fakeService{}, nil), mwConfig)

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
		last = rec.Code
		if i == 2 {
			var e envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
				t.Fatal(err)
			}
			if e.Error == nil || e.Error.Code != ErrCodeRateLimited {
				t.Errorf("limited error = %+v", e.Error)
			}
		}
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}

	// Health checks have their own, larger budget.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health after API limit = %d, want 200", rec.Code)
	}
}

func TestHandler_WithoutCache(t *testing.T) {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.RateLimitDisabled = true
	router := NewRouter(NewHandler(&fakeService{report: sampleReport()}, nil), mwConfig)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/results", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if decode(t, rec).Metadata.Cached {
			t.Error("uncached handler reported a cache hit")
		}
	}
}
