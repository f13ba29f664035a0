// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package models

import "strconv"

// measureState tracks why a Measure does or does not carry a value.
type measureState uint8

const (
	measureAbsent measureState = iota
	measurePresent
	measureUnparseable
)

// Measure is a numeric field that may be absent.
//
// A Measure is either present with a finite value, absent because no alias
// carried a value, or unparseable because a value was supplied but could not
// be coerced. Unparseable measures behave exactly like absent ones for every
// read except Unparseable(), which lets callers exclude them from
// denominators or report them as data-quality issues.
//
// The zero value is absent.
type Measure struct {
	value float64
	state measureState
}

// Present returns a Measure carrying v.
func Present(v float64) Measure {
	return Measure{value: v, state: measurePresent}
}

// Absent returns a Measure with no value.
func Absent() Measure {
	return Measure{}
}

// Unparseable returns an absent Measure annotated as a coercion failure.
func Unparseable() Measure {
	return Measure{state: measureUnparseable}
}

// Value returns the value and whether it is present.
func (m Measure) Value() (float64, bool) {
	if m.state != measurePresent {
		return 0, false
	}
	return m.value, true
}

// IsPresent reports whether the measure carries a value.
func (m Measure) IsPresent() bool {
	return m.state == measurePresent
}

// IsUnparseable reports whether a value was supplied but could not be coerced.
func (m Measure) IsUnparseable() bool {
	return m.state == measureUnparseable
}

// Or returns the value, or def when the measure is not present.
func (m Measure) Or(def float64) float64 {
	if m.state != measurePresent {
		return def
	}
	return m.value
}

// String formats the measure for logs.
func (m Measure) String() string {
	switch m.state {
	case measurePresent:
		return strconv.FormatFloat(m.value, 'f', -1, 64)
	case measureUnparseable:
		return "unparseable"
	default:
		return "absent"
	}
}

// MarshalJSON encodes a present measure as a number and anything else as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if m.state != measurePresent {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, m.value, 'f', -1, 64), nil
}
