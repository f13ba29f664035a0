// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/metrics"
	"github.com/tomtom215/larder/internal/models"
)

// Key layout. The suffix "<started_at_nanos>:<run_id>" sorts runs by start.
const (
	reportKeyPrefix  = "report:"
	summaryKeyPrefix = "summary:"
	runKeyPrefix     = "run:"
	latestKey        = "meta:latest"
)

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db        *badger.DB
	retention int
	ownsDB    bool
}

// OpenBadgerStore opens (or creates) a BadgerDB at path.
// retention is the number of reports kept; zero keeps everything.
func OpenBadgerStore(path string, retention int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = newBadgerLogger()
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store at %s: %w", path, err)
	}
	s := NewBadgerStore(db, retention)
	s.ownsDB = true
	return s, nil
}

// NewBadgerStore wraps an open BadgerDB. The caller keeps ownership of db.
func NewBadgerStore(db *badger.DB, retention int) *BadgerStore {
	return &BadgerStore{db: db, retention: retention}
}

func keySuffix(r *models.Report) string {
	return fmt.Sprintf("%020d:%s", r.StartedAt.UnixNano(), r.RunID)
}

// Save implements Store.
func (s *BadgerStore) Save(_ context.Context, report *models.Report) error {
	if report == nil || report.RunID == "" {
		return errors.New("report must have a run id")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	summary, err := json.Marshal(report.Summary())
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	suffix := keySuffix(report)
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(reportKeyPrefix+suffix), data); err != nil {
			return fmt.Errorf("set report: %w", err)
		}
		if err := txn.Set([]byte(summaryKeyPrefix+suffix), summary); err != nil {
			return fmt.Errorf("set summary: %w", err)
		}
		if err := txn.Set([]byte(runKeyPrefix+report.RunID), []byte(suffix)); err != nil {
			return fmt.Errorf("set run index: %w", err)
		}
		return txn.Set([]byte(latestKey), []byte(suffix))
	})
	if err != nil {
		metrics.RecordSnapshotOperation("save", "error")
		return err
	}
	metrics.RecordSnapshotOperation("save", "success")

	if s.retention > 0 {
		if err := s.prune(); err != nil {
			logging.Warn().Err(err).Msg("Failed to prune snapshot history")
		}
	}
	return nil
}

// prune deletes reports beyond the retention count, oldest first.
func (s *BadgerStore) prune() error {
	var stale []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(summaryKeyPrefix)
		seen := 0
		for it.Seek(append([]byte(summaryKeyPrefix), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			seen++
			if seen > s.retention {
				stale = append(stale, strings.TrimPrefix(string(it.Item().Key()), summaryKeyPrefix))
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, suffix := range stale {
			runID := suffix[strings.IndexByte(suffix, ':')+1:]
			for _, key := range []string{reportKeyPrefix + suffix, summaryKeyPrefix + suffix, runKeyPrefix + runID} {
				if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("delete %s: %w", key, err)
				}
			}
		}
		return nil
	})
	if err == nil {
		metrics.RecordSnapshotOperation("prune", "success")
	}
	return err
}

// getBySuffix loads the report stored under suffix.
func getBySuffix(txn *badger.Txn, suffix string, report *models.Report) error {
	item, err := txn.Get([]byte(reportKeyPrefix + suffix))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, report)
	})
}

// lookup resolves indexKey to a suffix and loads that report.
func (s *BadgerStore) lookup(op, indexKey string) (*models.Report, error) {
	var report models.Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(indexKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get index: %w", err)
		}
		suffix, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getBySuffix(txn, string(suffix), &report)
	})

	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RecordSnapshotOperation(op, "not_found")
		return nil, err
	case err != nil:
		metrics.RecordSnapshotOperation(op, "error")
		return nil, err
	}
	metrics.RecordSnapshotOperation(op, "success")
	return &report, nil
}

// Latest implements Store.
func (s *BadgerStore) Latest(_ context.Context) (*models.Report, error) {
	return s.lookup("latest", latestKey)
}

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, runID string) (*models.Report, error) {
	return s.lookup("get", runKeyPrefix+runID)
}

// List implements Store.
func (s *BadgerStore) List(_ context.Context, limit int) ([]models.RunSummary, error) {
	var out []models.RunSummary

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(summaryKeyPrefix)
		for it.Seek(append([]byte(summaryKeyPrefix), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var summary models.RunSummary
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &summary)
			}); err != nil {
				return fmt.Errorf("decode summary: %w", err)
			}
			out = append(out, summary)
		}
		return nil
	})
	if err != nil {
		metrics.RecordSnapshotOperation("list", "error")
		return nil, err
	}
	metrics.RecordSnapshotOperation("list", "success")
	if out == nil {
		out = []models.RunSummary{}
	}
	return out, nil
}

// Clear implements Store.
func (s *BadgerStore) Clear(_ context.Context) error {
	if err := s.db.DropAll(); err != nil {
		metrics.RecordSnapshotOperation("clear", "error")
		return fmt.Errorf("drop snapshots: %w", err)
	}
	metrics.RecordSnapshotOperation("clear", "success")
	return nil
}

// Close implements Store. A wrapped database is left open.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// badgerLogger routes Badger's internal logging through zerolog. Info and
// debug chatter is dropped.
type badgerLogger struct {
	logger zerolog.Logger
}

func newBadgerLogger() *badgerLogger {
	return &badgerLogger{logger: logging.WithComponent("badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(string, ...interface{}) {}

func (l *badgerLogger) Debugf(string, ...interface{}) {}
