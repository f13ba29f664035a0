// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests.
// All files carry the integration build tag:
//
//	go test -tags integration ./...
//
// # Postgres Container
//
// PostgresContainer starts a throwaway Postgres with optional init scripts,
// used to exercise the postgres record source against a real server:
//
//	func TestPostgresSource(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx, testinfra.WithInitSQL(seed))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg.Container)
//	    // connect with pg.URL
//	}
//
// # CI Considerations
//
// These tests require Docker and network access. Tests are skipped
// gracefully if Docker is unavailable.
package testinfra
