// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package aggregate

import (
	"github.com/tomtom215/larder/internal/assemble"
	"github.com/tomtom215/larder/internal/models"
)

// Aggregator names. These are the stable keys of the output contract.
const (
	NameDifficultyDistribution    = "difficulty-distribution"
	NamePrepTimeVsLikes           = "prep-time-vs-likes"
	NameMostCommonIngredients     = "most-common-ingredients"
	NameHighEngagementIngredients = "high-engagement-ingredients"
	NameMostViewedRecipes         = "most-viewed-recipes"
	NameAvgStepsPerRecipe         = "avg-steps-per-recipe"
	NameAvgIngredientsPerRecipe   = "avg-ingredients-per-recipe"
	NamePrepTimeRange             = "prep-time-range"
	NameMostActiveUsers           = "most-active-users"
	NameRecipeEngagementScore     = "recipe-engagement-score"
	NameAvgPrepTime               = "avg-prep-time"
	NamePrepTimeByRecipe          = "prep-time-by-recipe"
	NamePrepTimeLikesCorrelation  = "prep-time-likes-correlation"
)

// Func is the signature every catalog entry runs.
type Func func(ds *models.Dataset) (assemble.Output, error)

// Definition describes one aggregator in the catalog.
type Definition struct {
	Name        string `json:"name"`
	Shape       string `json:"shape"`
	Description string `json:"description"`
	Run         Func   `json:"-"`
}

// Options tunes the ranking aggregators.
type Options struct {
	// TopN truncates ingredient and recipe rankings.
	TopN int
	// TopUsers truncates the most-active-users ranking.
	TopUsers int
	// IngredientEngagementTypes are the interaction types that score an
	// ingredient's recipes.
	IngredientEngagementTypes []string
	// RecipeEngagementTypes are the interaction types that score a recipe.
	RecipeEngagementTypes []string
}

// DefaultOptions returns the standard catalog tuning.
func DefaultOptions() Options {
	return Options{
		TopN:                      10,
		TopUsers:                  5,
		IngredientEngagementTypes: []string{models.InteractionLike, models.InteractionAttempt},
		RecipeEngagementTypes:     []string{models.InteractionLike, models.InteractionAttempt, models.InteractionView},
	}
}

// Catalog returns the fixed aggregator catalogue in report order.
func Catalog(opts Options) []Definition {
	return []Definition{
		{
			Name:        NameDifficultyDistribution,
			Shape:       models.ShapeCategorical,
			Description: "Recipes per difficulty level",
			Run:         DifficultyDistribution,
		},
		{
			Name:        NamePrepTimeVsLikes,
			Shape:       models.ShapeScatter,
			Description: "Prep time against like count, one point per recipe",
			Run:         PrepTimeVsLikes,
		},
		{
			Name:        NameMostCommonIngredients,
			Shape:       models.ShapeRanked,
			Description: "Ingredients used by the most recipes",
			Run: func(ds *models.Dataset) (assemble.Output, error) {
				return MostCommonIngredients(ds, opts.TopN)
			},
		},
		{
			Name:        NameHighEngagementIngredients,
			Shape:       models.ShapeRanked,
			Description: "Ingredients whose recipes draw the most engagement",
			Run: func(ds *models.Dataset) (assemble.Output, error) {
				return HighEngagementIngredients(ds, opts.IngredientEngagementTypes, opts.TopN)
			},
		},
		{
			Name:        NameMostViewedRecipes,
			Shape:       models.ShapeRanked,
			Description: "Recipes with at least one view",
			Run:         MostViewedRecipes,
		},
		{
			Name:        NameAvgStepsPerRecipe,
			Shape:       models.ShapeScalar,
			Description: "Mean number of steps per recipe",
			Run:         AvgStepsPerRecipe,
		},
		{
			Name:        NameAvgIngredientsPerRecipe,
			Shape:       models.ShapeScalar,
			Description: "Mean number of ingredients per recipe",
			Run:         AvgIngredientsPerRecipe,
		},
		{
			Name:        NamePrepTimeRange,
			Shape:       models.ShapePaired,
			Description: "Shortest and longest prep time",
			Run:         PrepTimeRange,
		},
		{
			Name:        NameMostActiveUsers,
			Shape:       models.ShapeRanked,
			Description: "Users with the most interactions",
			Run: func(ds *models.Dataset) (assemble.Output, error) {
				return MostActiveUsers(ds, opts.TopUsers)
			},
		},
		{
			Name:        NameRecipeEngagementScore,
			Shape:       models.ShapeRanked,
			Description: "Recipes ranked by total engagement",
			Run: func(ds *models.Dataset) (assemble.Output, error) {
				return RecipeEngagementScore(ds, opts.RecipeEngagementTypes, opts.TopN)
			},
		},
		{
			Name:        NameAvgPrepTime,
			Shape:       models.ShapeScalar,
			Description: "Mean prep time in minutes",
			Run:         AvgPrepTime,
		},
		{
			Name:        NamePrepTimeByRecipe,
			Shape:       models.ShapeCategorical,
			Description: "Prep time of each recipe",
			Run:         PrepTimeByRecipe,
		},
		{
			Name:        NamePrepTimeLikesCorrelation,
			Shape:       models.ShapeScalar,
			Description: "Pearson correlation between prep time and likes",
			Run:         PrepTimeLikesCorrelation,
		},
	}
}
