// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package main is the entry point for the Larder server.

Larder loads recipe, ingredient, interaction, step and user records from a
configured source, normalizes them, runs the aggregator catalog and serves
the resulting report over a REST API.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("larder")
	├── PipelineSupervisor ("pipeline-layer")
	│   └── Refresh service (startup run, then every REFRESH_INTERVAL)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment variables
 2. Logging: zerolog, JSON or console
 3. Snapshot store: BadgerDB, or in memory when SNAPSHOT_ENABLED=false
 4. Payload cache
 5. Source: csv, duckdb, export or postgres, behind a circuit breaker
 6. Runner: restores the latest snapshot so the API can serve immediately
 7. Supervisor tree: refresh service and HTTP server

A failing source never stops the process. The failure is logged, the
previous report stays served and the next scheduled run tries again.

# Example Usage

	export DATA_DIR=./data
	export TOP_N=10
	./larder-server

Postgres:

	export LARDER_SOURCE=postgres
	export DATABASE_URL=postgres://larder:secret@db:5432/larder
	./larder-server

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, an in-flight run is canceled, and the snapshot store
and source connections are closed.
*/
package main
