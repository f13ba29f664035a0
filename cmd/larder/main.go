// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Command larder runs the aggregation pipeline once and prints the report.
//
//	larder -dir ./data                      # report JSON on stdout
//	larder -source duckdb -dir ./data -out report.json -quality quality.csv
//	larder -config config.yaml
//
// Exit codes: 0 on success, 1 when the run fails (including an unavailable
// source), 2 on usage or configuration errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/larder/internal/config"
	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/pipeline"
	"github.com/tomtom215/larder/internal/quality"
	"github.com/tomtom215/larder/internal/source"
)

const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath  string
	sourceKind  string
	dir         string
	out         string
	qualityPath string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("larder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	fs.StringVar(&opts.sourceKind, "source", "", "source kind: csv, duckdb, export, postgres")
	fs.StringVar(&opts.dir, "dir", "", "data directory for file sources")
	fs.StringVar(&opts.out, "out", "", "write the report JSON to this file instead of stdout")
	fs.StringVar(&opts.qualityPath, "quality", "", "write the data-quality report CSV to this file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.sourceKind != "" {
		cfg.Source.Kind = strings.ToLower(strings.TrimSpace(opts.sourceKind))
	}
	if opts.dir != "" {
		cfg.Source.Dir = opts.dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return exitUsage
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: stderr,
	})

	src, err := source.New(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Str("source", cfg.Source.Kind).Msg("Failed to build source")
		return exitRun
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	// One-shot runs are not persisted; the snapshot store belongs to the server.
	runner, err := pipeline.NewRunnerFromConfig(cfg, src, nil, nil)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create runner")
		return exitRun
	}
	defer runner.Close()

	report, err := runner.Run(ctx, pipeline.TriggerCLI)
	if err != nil {
		logging.Error().Err(err).Msg("Run failed")
		return exitRun
	}

	if err := writeReport(report, opts.out, stdout); err != nil {
		logging.Error().Err(err).Msg("Failed to write report")
		return exitRun
	}

	if opts.qualityPath != "" {
		if err := writeQuality(runner, opts.qualityPath); err != nil {
			logging.Error().Err(err).Msg("Failed to write quality report")
			return exitRun
		}
	}
	return exitOK
}

func writeReport(report any, path string, stdout io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logging.Info().Str("path", path).Msg("Report written")
	return nil
}

func writeQuality(runner *pipeline.Runner, path string) error {
	report, err := runner.Quality()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := quality.WriteCSV(f, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Int("issues", report.Summary.TotalIssues).
		Msg("Quality report written")
	return nil
}
