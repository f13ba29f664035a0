// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package normalize

import (
	"sort"
	"strings"

	"github.com/tomtom215/larder/internal/models"
)

// Record is a raw record resolved against a Schema.
// Fields not declared by the schema are dropped.
type Record struct {
	strs map[string]string
	nums map[string]models.Measure
}

// Normalize resolves raw against schema. It never fails; a field whose
// aliases are all missing or blank is absent.
func Normalize(raw models.RawRecord, schema Schema) Record {
	rec := Record{
		strs: make(map[string]string, len(schema.Fields)),
		nums: make(map[string]models.Measure),
	}

	for _, f := range schema.Fields {
		v, ok := resolve(raw, f.Aliases)
		if !ok {
			continue
		}
		switch f.Kind {
		case KindNumber:
			rec.nums[f.Name] = ParseNumber(v)
		default:
			if s, ok := ParseString(v); ok {
				rec.strs[f.Name] = s
			}
		}
	}
	return rec
}

// NormalizeAll resolves every raw record against schema, preserving order.
func NormalizeAll(raws []models.RawRecord, schema Schema) []Record {
	out := make([]Record, len(raws))
	for i, raw := range raws {
		out[i] = Normalize(raw, schema)
	}
	return out
}

// resolve returns the value of the first alias that carries a non-blank value.
func resolve(raw models.RawRecord, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, ok := raw[key]; ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

// String returns a text field.
func (r Record) String(name string) (string, bool) {
	s, ok := r.strs[name]
	return s, ok
}

// Text returns a text field, or "" when absent.
func (r Record) Text(name string) string {
	return r.strs[name]
}

// Lower returns a text field lowercased, or "" when absent.
func (r Record) Lower(name string) string {
	return strings.ToLower(r.strs[name])
}

// Number returns a numeric field. Missing fields are absent.
func (r Record) Number(name string) models.Measure {
	return r.nums[name]
}

// Unparseable reports whether a numeric field was supplied but could not be
// coerced.
func (r Record) Unparseable(name string) bool {
	return r.nums[name].IsUnparseable()
}

// UnparseableFields lists the numeric fields that failed coercion.
func (r Record) UnparseableFields() []string {
	var out []string
	for name, m := range r.nums {
		if m.IsUnparseable() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Has reports whether the named field carries a usable value.
func (r Record) Has(name string) bool {
	if _, ok := r.strs[name]; ok {
		return true
	}
	return r.nums[name].IsPresent()
}
