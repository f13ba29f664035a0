// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/larder/internal/config"
	"github.com/tomtom215/larder/internal/models"
)

func testReport(n int) *models.Report {
	started := time.Date(2026, 3, 1, 12, 0, n, 0, time.UTC)
	x := float64(n)
	return &models.Report{
		RunID:        fmt.Sprintf("run-%02d", n),
		Source:       "csv",
		StartedAt:    started,
		CompletedAt:  started.Add(250 * time.Millisecond),
		RecordCounts: map[string]int{models.EntityRecipe: n},
		Results: []models.ResultSet{
			{
				Name:    "prep-time-vs-likes",
				Shape:   models.ShapeScatter,
				Status:  models.StatusOK,
				Entries: []models.Entry{{Label: "Soup", Value: 1, X: &x}},
			},
			{
				Name:   "avg-prep-time",
				Shape:  models.ShapeScalar,
				Status: models.StatusOK,
				Scalar: &models.Scalar{Value: 12.5},
			},
			{
				Name:   "prep-time-range",
				Shape:  models.ShapePaired,
				Status: models.StatusNoResult,
				Reason: "insufficient data",
			},
		},
	}
}

// storeFactory builds a fresh store with the given retention.
type storeFactory func(t *testing.T, retention int) Store

func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		s := newStore(t, 0)
		if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
			t.Errorf("Latest() error = %v, want ErrNotFound", err)
		}
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
		list, err := s.List(ctx, 0)
		if err != nil || len(list) != 0 {
			t.Errorf("List() = %v, %v; want empty", list, err)
		}
	})

	t.Run("save and read back", func(t *testing.T) {
		s := newStore(t, 0)
		for i := 1; i <= 3; i++ {
			if err := s.Save(ctx, testReport(i)); err != nil {
				t.Fatalf("Save(%d) error = %v", i, err)
			}
		}

		latest, err := s.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if !reflect.DeepEqual(latest, testReport(3)) {
			t.Errorf("Latest() = %+v, want run-03", latest)
		}

		got, err := s.Get(ctx, "run-02")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.RunID != "run-02" || got.RecordCounts[models.EntityRecipe] != 2 {
			t.Errorf("Get() = %+v", got)
		}

		list, err := s.List(ctx, 2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 2 || list[0].RunID != "run-03" || list[1].RunID != "run-02" {
			t.Errorf("List(2) = %+v, want newest first", list)
		}
		if list[0].OK != 2 || list[0].NoResult != 1 {
			t.Errorf("summary counts = %+v", list[0])
		}
	})

	t.Run("retention", func(t *testing.T) {
		s := newStore(t, 2)
		for i := 1; i <= 4; i++ {
			if err := s.Save(ctx, testReport(i)); err != nil {
				t.Fatalf("Save(%d) error = %v", i, err)
			}
		}
		list, err := s.List(ctx, 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("List() = %d entries, want 2", len(list))
		}
		if _, err := s.Get(ctx, "run-01"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(pruned) error = %v, want ErrNotFound", err)
		}
		if _, err := s.Get(ctx, "run-04"); err != nil {
			t.Errorf("Get(kept) error = %v", err)
		}
	})

	t.Run("clear", func(t *testing.T) {
		s := newStore(t, 0)
		if err := s.Save(ctx, testReport(1)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := s.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
			t.Errorf("Latest() after Clear error = %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T, retention int) Store {
		return NewMemoryStore(retention)
	})
}

func TestBadgerStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T, retention int) Store {
		s, err := OpenBadgerStore(t.TempDir(), retention)
		if err != nil {
			t.Fatalf("OpenBadgerStore() error = %v", err)
		}
		t.Cleanup(func() {
			if err := s.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return s
	})
}

func TestBadgerStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir, 0)
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	if err := s.Save(ctx, testReport(7)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerStore(dir, 0)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	latest, err := reopened.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.RunID != "run-07" {
		t.Errorf("Latest().RunID = %q, want run-07", latest.RunID)
	}
}

func TestBadgerStore_RejectsAnonymousReport(t *testing.T) {
	s, err := OpenBadgerStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), &models.Report{}); err == nil {
		t.Error("Save() expected error for a report without run id")
	}
}

func TestOpen(t *testing.T) {
	mem, err := Open(config.SnapshotConfig{Enabled: false, Retention: 3})
	if err != nil {
		t.Fatalf("Open(disabled) error = %v", err)
	}
	if _, ok := mem.(*MemoryStore); !ok {
		t.Errorf("Open(disabled) = %T, want *MemoryStore", mem)
	}

	disk, err := Open(config.SnapshotConfig{Enabled: true, Path: t.TempDir(), Retention: 3})
	if err != nil {
		t.Fatalf("Open(enabled) error = %v", err)
	}
	defer disk.Close()
	if _, ok := disk.(*BadgerStore); !ok {
		t.Errorf("Open(enabled) = %T, want *BadgerStore", disk)
	}
}
