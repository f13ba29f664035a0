// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package supervisor provides suture-based process supervision for Larder.
//
// # Tree
//
//	larder (root)
//	├── pipeline-layer
//	│   └── refresh
//	└── api-layer
//	    └── http-server
//
// Services in one layer can crash and restart without affecting the other.
// Supervisor events are logged through sutureslog using the slog adapter from
// internal/logging, so they share the zerolog output.
//
// # Usage
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddPipelineService(services.NewRefreshService(runner, cfg.Engine.RefreshInterval, true))
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
//	err = tree.Serve(ctx)
package supervisor
