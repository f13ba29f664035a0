// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService: net/http server with graceful shutdown
//   - RefreshService: startup run plus periodic pipeline runs
//
// Every service returns ctx.Err() on shutdown and implements fmt.Stringer
// so suture's event hook can name it.
package services
