// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunLogger_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	rl := NewRunLoggerWithLogger(NewTestLogger(&buf))
	ctx := ContextWithRunID(context.Background(), "run-abc")

	rl.LogRunStarted(ctx, "csv", "manual")
	rl.LogSourceLoaded(ctx, "csv", map[string]int{"recipe": 2}, time.Millisecond)
	rl.LogRunCompleted(ctx, 10, 2, 1, time.Second)
	rl.LogRunFailed(ctx, errors.New("source unavailable"), time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, `"run_id":"run-abc"`) || !strings.Contains(line, `"component":"pipeline"`) {
			t.Errorf("line missing run_id/component: %s", line)
		}
	}
	if !strings.Contains(lines[1], `"recipes":2`) {
		t.Errorf("source line missing counts: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"warn"`) {
		t.Errorf("run with failures should log at warn: %s", lines[2])
	}
	if !strings.Contains(lines[3], `"level":"error"`) {
		t.Errorf("failed run should log at error: %s", lines[3])
	}
}

func TestRunLogger_NormalizationQuietWhenClean(t *testing.T) {
	var buf bytes.Buffer
	rl := NewRunLoggerWithLogger(NewTestLogger(&buf))

	rl.LogNormalization(context.Background(), map[string]int{}, nil)
	if buf.Len() != 0 {
		t.Errorf("clean normalization should not log: %s", buf.String())
	}

	rl.LogNormalization(context.Background(), map[string]int{"ingredient": 3}, nil)
	if !strings.Contains(buf.String(), `"ingredient":3`) {
		t.Errorf("expected anomaly counts: %s", buf.String())
	}
}
