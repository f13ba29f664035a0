// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package snapshot

import "github.com/tomtom215/larder/internal/config"

// Open returns the store described by cfg: BadgerDB at cfg.Path when
// snapshots are enabled, memory otherwise.
func Open(cfg config.SnapshotConfig) (Store, error) {
	if !cfg.Enabled {
		return NewMemoryStore(cfg.Retention), nil
	}
	s, err := OpenBadgerStore(cfg.Path, cfg.Retention)
	if err != nil {
		return nil, err
	}
	return s, nil
}
