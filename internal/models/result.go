// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Result shapes understood by the renderer.
const (
	ShapeCategorical = "categorical"
	ShapeRanked      = "ranked"
	ShapePaired      = "paired"
	ShapeScalar      = "scalar"
	ShapeScatter     = "scatter"
)

// Result statuses.
const (
	// StatusOK means the result set carries entries or a scalar.
	StatusOK = "ok"

	// StatusNoResult means the aggregator declined to produce output
	// because its minimum-cardinality precondition was not met.
	StatusNoResult = "no_result"

	// StatusFailed means the aggregator errored or panicked. Sibling
	// result sets are unaffected.
	StatusFailed = "failed"
)

// Entry is one label/value pair of a list-shaped result set.
// X is only set by scatter results, and only when the x attribute is present.
type Entry struct {
	Label string   `json:"label"`
	Value float64  `json:"value"`
	X     *float64 `json:"x,omitempty"`
}

// Scalar is the payload of a scalar-shaped result set.
type Scalar struct {
	Value float64 `json:"value"`
}

// ResultSet is the stable output contract for one aggregator.
//
// Example (list):
//
//	{"name":"most-viewed-recipes","shape":"ranked","status":"ok",
//	 "entries":[{"label":"r1-title","value":2}]}
//
// Example (no result):
//
//	{"name":"prep-time-range","shape":"paired","status":"no_result","reason":"insufficient data"}
type ResultSet struct {
	Name    string  `json:"name"`
	Shape   string  `json:"shape"`
	Status  string  `json:"status"`
	Entries []Entry `json:"entries,omitempty"`
	Scalar  *Scalar `json:"scalar,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// MarshalJSON always writes the entries key for an ok list-shaped result,
// so an empty ranking encodes as "entries":[] rather than dropping the key.
func (r ResultSet) MarshalJSON() ([]byte, error) {
	type plain ResultSet
	if r.Status != StatusOK || r.Shape == ShapeScalar {
		return json.Marshal(plain(r))
	}
	entries := r.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(struct {
		Name    string  `json:"name"`
		Shape   string  `json:"shape"`
		Status  string  `json:"status"`
		Entries []Entry `json:"entries"`
		Reason  string  `json:"reason,omitempty"`
	}{r.Name, r.Shape, r.Status, entries, r.Reason})
}

// OK reports whether the result set carries data.
func (r ResultSet) OK() bool {
	return r.Status == StatusOK
}

// Report is the set of result sets produced by one run.
type Report struct {
	RunID        string         `json:"run_id"`
	Source       string         `json:"source"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
	RecordCounts map[string]int `json:"record_counts"`
	Results      []ResultSet    `json:"results"`
}

// Result looks up a result set by aggregator name.
func (r *Report) Result(name string) (ResultSet, bool) {
	for _, rs := range r.Results {
		if rs.Name == name {
			return rs, true
		}
	}
	return ResultSet{}, false
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunSummary condenses a report for status endpoints and logs.
type RunSummary struct {
	RunID        string         `json:"run_id"`
	Source       string         `json:"source"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
	DurationMS   int64          `json:"duration_ms"`
	RecordCounts map[string]int `json:"record_counts"`
	OK           int            `json:"ok"`
	NoResult     int            `json:"no_result"`
	Failed       int            `json:"failed"`
}

// Summary counts result statuses.
func (r *Report) Summary() RunSummary {
	s := RunSummary{
		RunID:        r.RunID,
		Source:       r.Source,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		DurationMS:   r.Duration().Milliseconds(),
		RecordCounts: r.RecordCounts,
	}
	for _, rs := range r.Results {
		switch rs.Status {
		case StatusOK:
			s.OK++
		case StatusNoResult:
			s.NoResult++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
