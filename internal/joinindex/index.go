// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package joinindex builds keyed indexes over normalized record sets so that
// aggregators can join recipes to their ingredients, steps and interactions
// in a single pass.
//
// Indexes remember the order in which keys were first seen. Aggregators that
// need deterministic output without an explicit sort (ties in a ranking, the
// category order of a histogram) rely on that order.
//
// Records whose key is blank are skipped: they never match a recipe and
// never count toward any bucket.
package joinindex

// CountIndex maps a key to the number of records carrying it.
type CountIndex struct {
	counts map[string]int
	order  []string
}

// NewCountIndex returns an empty index.
func NewCountIndex() *CountIndex {
	return &CountIndex{counts: make(map[string]int)}
}

// Add increments the count for key. Blank keys are ignored.
func (c *CountIndex) Add(key string) {
	c.AddN(key, 1)
}

// AddN adds n to the count for key. Blank keys are ignored.
func (c *CountIndex) AddN(key string, n int) {
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// Seed registers keys with a zero count, fixing their position in Keys.
func (c *CountIndex) Seed(keys ...string) {
	for _, k := range keys {
		c.AddN(k, 0)
	}
}

// Get returns the count for key, or zero when the key is unknown.
func (c *CountIndex) Get(key string) int {
	return c.counts[key]
}

// Has reports whether key has been seen.
func (c *CountIndex) Has(key string) bool {
	_, ok := c.counts[key]
	return ok
}

// Keys returns keys in first-seen order.
func (c *CountIndex) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of distinct keys.
func (c *CountIndex) Len() int {
	return len(c.order)
}

// Total returns the sum of all counts.
func (c *CountIndex) Total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Count builds a CountIndex over items keyed by key.
func Count[T any](items []T, key func(T) string) *CountIndex {
	idx := NewCountIndex()
	for _, it := range items {
		idx.Add(key(it))
	}
	return idx
}

// CountWhere builds a CountIndex over the items that satisfy keep.
func CountWhere[T any](items []T, key func(T) string, keep func(T) bool) *CountIndex {
	idx := NewCountIndex()
	for _, it := range items {
		if keep(it) {
			idx.Add(key(it))
		}
	}
	return idx
}

// GroupIndex maps a key to the records carrying it, in input order.
type GroupIndex[T any] struct {
	groups map[string][]T
	order  []string
}

// Group builds a GroupIndex over items keyed by key.
func Group[T any](items []T, key func(T) string) *GroupIndex[T] {
	g := &GroupIndex[T]{groups: make(map[string][]T)}
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		if _, ok := g.groups[k]; !ok {
			g.order = append(g.order, k)
		}
		g.groups[k] = append(g.groups[k], it)
	}
	return g
}

// Get returns the records for key, or nil.
func (g *GroupIndex[T]) Get(key string) []T {
	return g.groups[key]
}

// Keys returns keys in first-seen order.
func (g *GroupIndex[T]) Keys() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of distinct keys.
func (g *GroupIndex[T]) Len() int {
	return len(g.order)
}

// Sizes returns the size of every group in first-seen order.
func (g *GroupIndex[T]) Sizes() []int {
	out := make([]int, len(g.order))
	for i, k := range g.order {
		out[i] = len(g.groups[k])
	}
	return out
}
