// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/larder/internal/models"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"recipes.csv":      "id,title,difficulty,prepTimeMin\nr1,Pancakes,easy,15\nr2,Ragu,extreme,40\n",
		"ingredients.csv":  "recipeId,name,quantity,unit\nr1,flour,200,g\nr2,tomato,3,\n",
		"interactions.csv": "interactionId,recipeId,userId,type,rating\ni1,r1,u1,view,\ni2,r2,u1,like,\ni3,r1,u2,rating,4\n",
		"steps.csv":        "recipeId,stepNo,text\nr1,1,Mix\nr2,1,Simmer\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// isolate keeps ambient config files and env from leaking into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"CONFIG_PATH", "LARDER_SOURCE", "DATA_DIR", "DATA_FORMAT"} {
		// Setenv restores the original value on cleanup.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRun_PrintsReport(t *testing.T) {
	isolate(t)
	dir := writeDataDir(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", dir}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}

	var report models.Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not a report: %v\n%s", err, stdout.String())
	}
	if report.RunID == "" || len(report.Results) == 0 {
		t.Errorf("report = %+v", report)
	}
	if report.RecordCounts["recipe"] != 2 {
		t.Errorf("recipe count = %d, want 2", report.RecordCounts["recipe"])
	}
}

func TestRun_WritesFiles(t *testing.T) {
	isolate(t)
	dir := writeDataDir(t)
	out := filepath.Join(t.TempDir(), "report.json")
	qualityPath := filepath.Join(t.TempDir(), "quality.csv")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-source", "CSV", "-dir", dir, "-out", out, "-quality", qualityPath}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty with -out, got %q", stdout.String())
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("report file: %v", err)
	}
	csvData, err := os.ReadFile(qualityPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(csvData), "entity,id,issue\n") {
		t.Errorf("quality csv header: %q", csvData)
	}
	if !strings.Contains(string(csvData), "recipe,r2,Invalid difficulty 'extreme'") {
		t.Errorf("quality csv missing difficulty issue:\n%s", csvData)
	}
}

func TestRun_SourceFailure(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", t.TempDir()}, &stdout, &stderr)
	if code != exitRun {
		t.Fatalf("exit = %d, want %d", code, exitRun)
	}
	if stdout.Len() != 0 {
		t.Errorf("no report expected on failure, got %q", stdout.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"positional args", []string{"extra"}},
		{"unknown source", []string{"-source", "mongo"}},
		{"missing config file", []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), tt.args, &stdout, &stderr); code != exitUsage {
				t.Errorf("exit = %d, want %d (stderr: %s)", code, exitUsage, stderr.String())
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != exitOK {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "-quality") {
		t.Errorf("usage missing flags: %s", stderr.String())
	}
}
