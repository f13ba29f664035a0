// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package normalize

import "github.com/tomtom215/larder/internal/models"

// Recipes projects raw recipe rows onto models.Recipe.
func Recipes(raws []models.RawRecord) []models.Recipe {
	out := make([]models.Recipe, 0, len(raws))
	for _, raw := range raws {
		out = append(out, recipe(Normalize(raw, RecipeSchema)))
	}
	return out
}

func recipe(r Record) models.Recipe {
	return models.Recipe{
		ID:          r.Text(FieldID),
		Title:       r.Text(FieldTitle),
		AuthorID:    r.Text(FieldAuthorID),
		Difficulty:  r.Lower(FieldDifficulty),
		PrepTimeMin: r.Number(FieldPrepTime),
		CookTimeMin: r.Number(FieldCookTime),
		Servings:    r.Number(FieldServings),
	}
}

// Ingredients projects raw ingredient rows onto models.Ingredient.
// Names are lowercased so that "Flour" and "flour" count together.
func Ingredients(raws []models.RawRecord) []models.Ingredient {
	out := make([]models.Ingredient, 0, len(raws))
	for _, raw := range raws {
		r := Normalize(raw, IngredientSchema)
		out = append(out, models.Ingredient{
			RecipeID: r.Text(FieldRecipeID),
			Name:     r.Lower(FieldName),
			Quantity: r.Number(FieldQuantity),
			Unit:     r.Text(FieldUnit),
		})
	}
	return out
}

// Interactions projects raw interaction rows onto models.Interaction.
func Interactions(raws []models.RawRecord) []models.Interaction {
	out := make([]models.Interaction, 0, len(raws))
	for _, raw := range raws {
		r := Normalize(raw, InteractionSchema)
		out = append(out, models.Interaction{
			ID:       r.Text(FieldID),
			RecipeID: r.Text(FieldRecipeID),
			UserID:   r.Text(FieldUserID),
			Type:     r.Lower(FieldType),
			Rating:   r.Number(FieldRating),
		})
	}
	return out
}

// Steps projects raw step rows onto models.Step.
func Steps(raws []models.RawRecord) []models.Step {
	out := make([]models.Step, 0, len(raws))
	for _, raw := range raws {
		r := Normalize(raw, StepSchema)
		out = append(out, models.Step{
			RecipeID: r.Text(FieldRecipeID),
			StepNo:   r.Number(FieldStepNo),
			Text:     r.Text(FieldText),
		})
	}
	return out
}

// Users projects raw user rows onto models.User.
func Users(raws []models.RawRecord) []models.User {
	out := make([]models.User, 0, len(raws))
	for _, raw := range raws {
		r := Normalize(raw, UserSchema)
		out = append(out, models.User{
			ID:    r.Text(FieldID),
			Name:  r.Text(FieldName),
			Email: r.Text(FieldEmail),
		})
	}
	return out
}

// Stats counts normalization outcomes for one dataset.
type Stats struct {
	// MissingKeys counts records, per entity, whose join key is absent.
	// Such records still flow through but never match a recipe.
	MissingKeys map[string]int

	// UnparseableValues counts numeric fields, per entity, that were supplied
	// but could not be coerced.
	UnparseableValues map[string]int
}

// Total returns the sum of all counted anomalies.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.MissingKeys {
		n += c
	}
	for _, c := range s.UnparseableValues {
		n += c
	}
	return n
}

// Dataset normalizes every record set of raw.
func Dataset(raw *models.RawDataset) (*models.Dataset, Stats) {
	stats := Stats{
		MissingKeys:       make(map[string]int),
		UnparseableValues: make(map[string]int),
	}
	if raw == nil {
		return &models.Dataset{}, stats
	}

	ds := &models.Dataset{
		Recipes:      Recipes(raw.Recipes),
		Ingredients:  Ingredients(raw.Ingredients),
		Interactions: Interactions(raw.Interactions),
		Steps:        Steps(raw.Steps),
		Users:        Users(raw.Users),
	}

	for _, r := range ds.Recipes {
		if r.ID == "" {
			stats.MissingKeys[models.EntityRecipe]++
		}
		for _, m := range []models.Measure{r.PrepTimeMin, r.CookTimeMin, r.Servings} {
			if m.IsUnparseable() {
				stats.UnparseableValues[models.EntityRecipe]++
			}
		}
	}
	for _, ing := range ds.Ingredients {
		if ing.RecipeID == "" {
			stats.MissingKeys[models.EntityIngredient]++
		}
		if ing.Quantity.IsUnparseable() {
			stats.UnparseableValues[models.EntityIngredient]++
		}
	}
	for _, in := range ds.Interactions {
		if in.RecipeID == "" {
			stats.MissingKeys[models.EntityInteraction]++
		}
		if in.Rating.IsUnparseable() {
			stats.UnparseableValues[models.EntityInteraction]++
		}
	}
	for _, st := range ds.Steps {
		if st.RecipeID == "" {
			stats.MissingKeys[models.EntityStep]++
		}
		if st.StepNo.IsUnparseable() {
			stats.UnparseableValues[models.EntityStep]++
		}
	}
	for _, u := range ds.Users {
		if u.ID == "" {
			stats.MissingKeys[models.EntityUser]++
		}
	}
	return ds, stats
}
