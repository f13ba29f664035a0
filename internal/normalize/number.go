// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/larder/internal/models"
)

// float64er is satisfied by json.Number from both encoding/json and go-json.
type float64er interface {
	Float64() (float64, error)
}

// ParseNumber coerces a raw value into a Measure.
//
// nil and blank strings are absent. Integers, finite floats and numeric
// strings are present. Everything else (non-numeric text, NaN, Inf, booleans)
// is unparseable.
func ParseNumber(v any) models.Measure {
	switch n := v.(type) {
	case nil:
		return models.Absent()
	case string:
		return parseNumericString(n)
	case []byte:
		return parseNumericString(string(n))
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return models.Present(float64(n))
	case int8:
		return models.Present(float64(n))
	case int16:
		return models.Present(float64(n))
	case int32:
		return models.Present(float64(n))
	case int64:
		return models.Present(float64(n))
	case uint:
		return models.Present(float64(n))
	case uint8:
		return models.Present(float64(n))
	case uint16:
		return models.Present(float64(n))
	case uint32:
		return models.Present(float64(n))
	case uint64:
		return models.Present(float64(n))
	case float64er:
		f, err := n.Float64()
		if err != nil {
			return models.Unparseable()
		}
		return finite(f)
	default:
		return models.Unparseable()
	}
}

func parseNumericString(s string) models.Measure {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Absent()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Unparseable()
	}
	return finite(f)
}

func finite(f float64) models.Measure {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Unparseable()
	}
	return models.Present(f)
}

// ParseString coerces a raw value into trimmed text.
// Returns false for nil and blank values. Numeric identifiers are formatted
// without a trailing ".0" so that 7 and "7" join.
func ParseString(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case []byte:
		s = string(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		s = strconv.FormatFloat(f, 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int32:
		s = strconv.FormatInt(int64(t), 10)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint64:
		s = strconv.FormatUint(t, 10)
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// present reports whether a raw value counts as supplied for alias resolution.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []byte:
		return strings.TrimSpace(string(t)) != ""
	default:
		return true
	}
}
