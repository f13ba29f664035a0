// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/larder/internal/config"
	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/models"
)

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// PostgresSource reads each record set from a table in a Postgres store.
type PostgresSource struct {
	pool   *pgxpool.Pool
	tables map[string]string
}

// NewPostgresSource initializes a connection pool and validates connectivity with Ping.
func NewPostgresSource(ctx context.Context, cfg config.PostgresConfig) (*PostgresSource, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	connCtx := ctx
	if cfg.ConnTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, cfg.ConnTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logging.Info().
		Str("dsn", logging.RedactDSN(cfg.URL)).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Postgres source connected")

	return NewPostgresSourceFromPool(pool, cfg), nil
}

// NewPostgresSourceFromPool wraps an existing pool. The source takes
// ownership of the pool and closes it in Close.
func NewPostgresSourceFromPool(pool *pgxpool.Pool, cfg config.PostgresConfig) *PostgresSource {
	return &PostgresSource{
		pool: pool,
		tables: map[string]string{
			models.EntityRecipe:      cfg.RecipesTable,
			models.EntityIngredient:  cfg.IngredientsTable,
			models.EntityInteraction: cfg.InteractionsTable,
			models.EntityStep:        cfg.StepsTable,
			models.EntityUser:        cfg.UsersTable,
		},
	}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Close releases database resources.
func (s *PostgresSource) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// Load implements Source. Every table is read inside one read-only
// transaction so the sets are mutually consistent.
func (s *PostgresSource) Load(ctx context.Context) (*models.RawDataset, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ds := &models.RawDataset{}
	for _, t := range tables {
		name := s.tables[t.entity]
		if name == "" {
			if t.required {
				return nil, fmt.Errorf("%w: no table configured for %s", ErrMissingTable, t.entity)
			}
			continue
		}

		records, err := s.readTable(ctx, tx, name)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
				if !t.required {
					continue
				}
				return nil, fmt.Errorf("%w: table %s", ErrMissingTable, name)
			}
			return nil, fmt.Errorf("read table %s: %w", name, err)
		}
		assign(ds, t.entity, records)
	}
	return ds, nil
}

func (s *PostgresSource) readTable(ctx context.Context, tx pgx.Tx, name string) ([]models.RawRecord, error) {
	// A failed statement aborts the transaction; the savepoint lets an
	// optional missing table be skipped.
	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = sp.Rollback(ctx)
	}()

	rows, err := sp.Query(ctx, "SELECT * FROM "+pgx.Identifier{name}.Sanitize())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var records []models.RawRecord
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(models.RawRecord, len(fields))
		for i, fd := range fields {
			rec[fd.Name] = pgValue(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, sp.Commit(ctx)
}

// pgValue converts a decoded Postgres value into something the normalizer accepts.
func pgValue(v any) any {
	switch x := v.(type) {
	case [16]byte:
		return uuid.UUID(x).String()
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return rawValue(v)
	}
}
