// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package snapshot

import (
	"context"
	"sync"

	"github.com/tomtom215/larder/internal/models"
)

// MemoryStore keeps reports in process memory. Used when persistence is
// disabled and in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	reports   []*models.Report // oldest first
	retention int
}

// NewMemoryStore creates an in-memory store keeping at most retention
// reports. Zero keeps everything.
func NewMemoryStore(retention int) *MemoryStore {
	return &MemoryStore{retention: retention}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports = append(m.reports, report)
	if m.retention > 0 && len(m.reports) > m.retention {
		m.reports = append([]*models.Report(nil), m.reports[len(m.reports)-m.retention:]...)
	}
	return nil
}

// Latest implements Store.
func (m *MemoryStore) Latest(_ context.Context) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.reports) == 0 {
		return nil, ErrNotFound
	}
	return m.reports[len(m.reports)-1], nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, runID string) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.reports) - 1; i >= 0; i-- {
		if m.reports[i].RunID == runID {
			return m.reports[i], nil
		}
	}
	return nil, ErrNotFound
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, limit int) ([]models.RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.RunSummary, 0, len(m.reports))
	for i := len(m.reports) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.reports[i].Summary())
	}
	return out, nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = nil
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
