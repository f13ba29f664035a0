// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/larder/internal/models"
)

// ErrMissingTable is returned when a required record set cannot be found.
var ErrMissingTable = errors.New("required record set missing")

// Source delivers the raw record sets for one run. Load either returns
// every required set or an error; partial datasets are never returned.
type Source interface {
	Name() string
	Load(ctx context.Context) (*models.RawDataset, error)
}

// table describes one record set and the base names it may be stored under.
type table struct {
	entity   string
	names    []string
	required bool
}

// tables lists the record sets in load order. Flat exports have written
// the recipe table both as "recipes" and "recipe".
var tables = []table{
	{entity: models.EntityRecipe, names: []string{"recipes", "recipe"}, required: true},
	{entity: models.EntityIngredient, names: []string{"ingredients", "ingredient"}, required: true},
	{entity: models.EntityInteraction, names: []string{"interactions", "interaction"}, required: true},
	{entity: models.EntityStep, names: []string{"steps", "step"}, required: true},
	{entity: models.EntityUser, names: []string{"users", "user"}, required: false},
}

// assign stores records into the dataset slot for entity.
func assign(ds *models.RawDataset, entity string, records []models.RawRecord) {
	switch entity {
	case models.EntityRecipe:
		ds.Recipes = records
	case models.EntityIngredient:
		ds.Ingredients = records
	case models.EntityInteraction:
		ds.Interactions = records
	case models.EntityStep:
		ds.Steps = records
	case models.EntityUser:
		ds.Users = records
	}
}

// resolveFile returns the first existing file for t in dir with extension ext.
// A missing optional table yields "" and no error.
func resolveFile(dir string, t table, ext string) (string, error) {
	for _, name := range t.names {
		path := filepath.Join(dir, name+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if t.required {
		return "", fmt.Errorf("%w: %s%s in %s", ErrMissingTable, t.names[0], ext, dir)
	}
	return "", nil
}

// loadFiles resolves each table in dir and reads it with read.
func loadFiles(ctx context.Context, dir, ext string, read func(ctx context.Context, path string) ([]models.RawRecord, error)) (*models.RawDataset, error) {
	ds := &models.RawDataset{}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := resolveFile(dir, t, ext)
		if err != nil {
			return nil, err
		}
		if path == "" {
			continue
		}
		records, err := read(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		assign(ds, t.entity, records)
	}
	return ds, nil
}
