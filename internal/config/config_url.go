// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validatePostgresURL validates a Postgres connection URL.
// Accepts postgres:// and postgresql:// with a host and database name.
// Key=value DSNs are accepted as long as they name a host.
func validatePostgresURL(rawURL string) error {
	if !strings.Contains(rawURL, "://") {
		if !strings.Contains(rawURL, "host=") {
			return fmt.Errorf("key=value connection string must set host")
		}
		return nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsedURL.Scheme != "postgres" && parsedURL.Scheme != "postgresql" {
		return fmt.Errorf("scheme must be postgres or postgresql, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:5432)")
	}

	if strings.Trim(parsedURL.Path, "/") == "" {
		return fmt.Errorf("database name is required (e.g., postgres://localhost:5432/larder)")
	}

	return nil
}
