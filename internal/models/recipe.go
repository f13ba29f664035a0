// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package models

// Difficulty levels accepted for a recipe.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Difficulties is the closed, ordered category set used by the difficulty
// distribution.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Interaction types recorded against a recipe.
const (
	InteractionView    = "view"
	InteractionLike    = "like"
	InteractionAttempt = "attempt"
	InteractionRating  = "rating"
)

// InteractionTypes lists every interaction type in canonical order.
var InteractionTypes = []string{InteractionView, InteractionLike, InteractionAttempt, InteractionRating}

// IsInteractionType reports whether t is a known interaction type.
func IsInteractionType(t string) bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsDifficulty reports whether d is one of Difficulties.
func IsDifficulty(d string) bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Recipe is a normalized recipe row.
// Difficulty is lowercased and trimmed; it may hold a value outside
// Difficulties when the source is dirty.
type Recipe struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	AuthorID    string  `json:"author_id,omitempty"`
	Difficulty  string  `json:"difficulty"`
	PrepTimeMin Measure `json:"prep_time_min"`
	CookTimeMin Measure `json:"cook_time_min"`
	Servings    Measure `json:"servings"`
}

// Label returns the display label for the recipe, falling back to its ID
// when the title is missing.
func (r Recipe) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// Ingredient is a normalized ingredient row. Duplicates are valid.
type Ingredient struct {
	RecipeID string  `json:"recipe_id"`
	Name     string  `json:"name"`
	Quantity Measure `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Interaction is a normalized user interaction with a recipe.
// Type is lowercased and trimmed.
type Interaction struct {
	ID       string  `json:"id,omitempty"`
	RecipeID string  `json:"recipe_id"`
	UserID   string  `json:"user_id"`
	Type     string  `json:"type"`
	Rating   Measure `json:"rating"`
}

// Step is a normalized preparation step. Only the per-recipe count matters
// to aggregation; order is kept for reporting.
type Step struct {
	RecipeID string  `json:"recipe_id"`
	StepNo   Measure `json:"step_no"`
	Text     string  `json:"text"`
}

// User is a normalized user row. Aggregation only needs user identifiers
// carried on interactions; the user table feeds the data-quality report.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Dataset holds every normalized record set for one aggregation run.
type Dataset struct {
	Recipes      []Recipe
	Ingredients  []Ingredient
	Interactions []Interaction
	Steps        []Step
	Users        []User
}
