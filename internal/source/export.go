// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/normalize"
)

// Document export file names.
const (
	ExportRecipesFile      = "recipes.json"
	ExportUsersFile        = "users.json"
	ExportInteractionsFile = "interactions.json"
)

// ExportSource reads a document-store export and flattens it into the five
// record sets. Recipes carry nested ingredients and steps arrays.
type ExportSource struct {
	dir string
}

// NewExportSource creates an export source over dir.
func NewExportSource(dir string) *ExportSource {
	return &ExportSource{dir: dir}
}

// Name implements Source.
func (s *ExportSource) Name() string { return "export" }

// Load implements Source.
func (s *ExportSource) Load(ctx context.Context) (*models.RawDataset, error) {
	recipes, err := readDocuments(filepath.Join(s.dir, ExportRecipesFile), true)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	interactions, err := readDocuments(filepath.Join(s.dir, ExportInteractionsFile), true)
	if err != nil {
		return nil, err
	}
	users, err := readDocuments(filepath.Join(s.dir, ExportUsersFile), false)
	if err != nil {
		return nil, err
	}

	ds := Flatten(recipes)
	ds.Interactions = interactions
	ds.Users = users
	return ds, nil
}

// readDocuments decodes a JSON array of objects. Numbers are kept as
// json.Number so identifiers survive untouched.
func readDocuments(path string, required bool) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingTable, path)
		}
		return nil, err
	}
	defer f.Close()

	docs, err := DecodeDocuments(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return docs, nil
}

// DecodeDocuments decodes a JSON array of objects into records.
func DecodeDocuments(r io.Reader) ([]models.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var docs []models.RawRecord
	if err := dec.Decode(&docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Flatten splits recipe documents into recipe, ingredient and step rows.
// Ingredient rows get a 1-based ingredientNo; tags are joined with commas.
// The returned dataset has no interactions or users.
func Flatten(recipes []models.RawRecord) *models.RawDataset {
	ds := &models.RawDataset{Recipes: make([]models.RawRecord, 0, len(recipes))}

	for _, doc := range recipes {
		row := make(models.RawRecord, len(doc))
		for k, v := range doc {
			switch k {
			case "ingredients", "steps":
				continue
			case "tags":
				row[k] = joinTags(v)
			default:
				row[k] = v
			}
		}
		ds.Recipes = append(ds.Recipes, row)

		// Nested rows join on the same id the recipe row resolves to.
		recipeID := normalize.Normalize(doc, normalize.RecipeSchema).Text(normalize.FieldID)

		for i, ing := range nestedDocuments(doc["ingredients"]) {
			setOwner(ing, recipeID)
			ing["ingredientNo"] = i + 1
			ds.Ingredients = append(ds.Ingredients, ing)
		}
		for _, step := range nestedDocuments(doc["steps"]) {
			setOwner(step, recipeID)
			ds.Steps = append(ds.Steps, step)
		}
	}
	return ds
}

// setOwner stamps the owning recipe id onto a nested row. A recipe without
// an id leaves the row's own key untouched.
func setOwner(rec models.RawRecord, recipeID string) {
	if recipeID == "" {
		return
	}
	rec["recipeId"] = recipeID
}

// nestedDocuments copies the objects of a nested array. Non-object
// elements are skipped.
func nestedDocuments(v any) []models.RawRecord {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := make(models.RawRecord, len(obj)+2)
		for k, val := range obj {
			rec[k] = val
		}
		out = append(out, rec)
	}
	return out
}

func joinTags(v any) string {
	switch tags := v.(type) {
	case []any:
		parts := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := normalize.ParseString(t); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		s, _ := normalize.ParseString(v)
		return s
	}
}
