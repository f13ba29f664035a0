// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package assemble turns raw aggregator output into the stable result-set
// contract. It orders, truncates and labels; it holds no business logic.
package assemble

import (
	"errors"
	"sort"

	"github.com/tomtom215/larder/internal/models"
)

// ErrInsufficientData signals that an aggregator's minimum-cardinality
// precondition was not met. It is assembled as a no_result slot, not a
// failure.
var ErrInsufficientData = errors.New("insufficient data")

// Output is what an aggregator hands back: either a list of entries or a
// single scalar. A list output with no entries is valid.
type Output struct {
	Entries []models.Entry
	Scalar  *float64
}

// List wraps entries as list output.
func List(entries []models.Entry) Output {
	return Output{Entries: entries}
}

// Value wraps v as scalar output.
func Value(v float64) Output {
	return Output{Scalar: &v}
}

// Pair builds a list entry.
func Pair(label string, value float64) models.Entry {
	return models.Entry{Label: label, Value: value}
}

// Point builds a scatter entry. x is omitted when absent.
func Point(label string, x models.Measure, value float64) models.Entry {
	e := models.Entry{Label: label, Value: value}
	if v, ok := x.Value(); ok {
		e.X = &v
	}
	return e
}

// Assemble builds the result set for one aggregator invocation.
//
//   - err wrapping ErrInsufficientData yields status no_result.
//   - any other err yields status failed with the error text as reason.
//   - a scalar shape without a scalar value is a failure.
func Assemble(name, shape string, out Output, err error) models.ResultSet {
	rs := models.ResultSet{Name: name, Shape: shape}

	switch {
	case errors.Is(err, ErrInsufficientData):
		rs.Status = models.StatusNoResult
		rs.Reason = ErrInsufficientData.Error()
		return rs
	case err != nil:
		return Failed(name, shape, err.Error())
	}

	if shape == models.ShapeScalar {
		if out.Scalar == nil {
			return Failed(name, shape, "scalar output missing")
		}
		rs.Status = models.StatusOK
		rs.Scalar = &models.Scalar{Value: *out.Scalar}
		return rs
	}

	rs.Status = models.StatusOK
	rs.Entries = make([]models.Entry, len(out.Entries))
	copy(rs.Entries, out.Entries)
	return rs
}

// Failed builds a failed result set.
func Failed(name, shape, reason string) models.ResultSet {
	return models.ResultSet{
		Name:   name,
		Shape:  shape,
		Status: models.StatusFailed,
		Reason: reason,
	}
}

// Ranked returns entries stably sorted by descending value and truncated to
// the first n. Ties keep their input order. n <= 0 disables truncation.
// The input slice is not modified.
func Ranked(entries []models.Entry, n int) []models.Entry {
	out := make([]models.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
