// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package aggregate

import (
	"math"
	"sort"

	"github.com/tomtom215/larder/internal/assemble"
	"github.com/tomtom215/larder/internal/joinindex"
	"github.com/tomtom215/larder/internal/models"
)

// ErrInsufficientData is returned when an aggregator's minimum-cardinality
// precondition is not met.
var ErrInsufficientData = assemble.ErrInsufficientData

func interactionRecipe(i models.Interaction) string { return i.RecipeID }
func interactionUser(i models.Interaction) string   { return i.UserID }
func ingredientName(i models.Ingredient) string     { return i.Name }
func ingredientRecipe(i models.Ingredient) string   { return i.RecipeID }
func stepRecipe(s models.Step) string               { return s.RecipeID }

// interactionsOfType counts interactions per recipe whose type is in types.
func interactionsOfType(ds *models.Dataset, types ...string) *joinindex.CountIndex {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return joinindex.CountWhere(ds.Interactions, interactionRecipe, func(i models.Interaction) bool {
		_, ok := set[i.Type]
		return ok
	})
}

// DifficultyDistribution counts recipes per difficulty over the closed set
// easy, medium, hard. Every category is emitted, zero counts included.
// Values outside the set are ignored.
func DifficultyDistribution(ds *models.Dataset) (assemble.Output, error) {
	idx := joinindex.NewCountIndex()
	idx.Seed(models.Difficulties...)

	for _, r := range ds.Recipes {
		if idx.Has(r.Difficulty) {
			idx.Add(r.Difficulty)
		}
	}

	entries := make([]models.Entry, 0, len(models.Difficulties))
	for _, d := range models.Difficulties {
		entries = append(entries, assemble.Pair(d, float64(idx.Get(d))))
	}
	return assemble.List(entries), nil
}

// PrepTimeVsLikes emits one point per recipe: prep time on x, like count as
// value. Recipes without likes get 0; recipes without a prep time keep their
// point with x omitted.
func PrepTimeVsLikes(ds *models.Dataset) (assemble.Output, error) {
	likes := interactionsOfType(ds, models.InteractionLike)

	entries := make([]models.Entry, 0, len(ds.Recipes))
	for _, r := range ds.Recipes {
		entries = append(entries, assemble.Point(r.Label(), r.PrepTimeMin, float64(likes.Get(r.ID))))
	}
	return assemble.List(entries), nil
}

// MostCommonIngredients ranks ingredient names by number of ingredient rows.
func MostCommonIngredients(ds *models.Dataset, n int) (assemble.Output, error) {
	idx := joinindex.Count(ds.Ingredients, ingredientName)
	return assemble.List(assemble.Ranked(countEntries(idx), n)), nil
}

// HighEngagementIngredients ranks ingredient names by the summed engagement
// of the recipes that use them. Engagement is the number of interactions of
// the given types. Each ingredient row contributes its recipe's engagement.
func HighEngagementIngredients(ds *models.Dataset, types []string, n int) (assemble.Output, error) {
	engagement := interactionsOfType(ds, types...)

	scores := joinindex.NewCountIndex()
	for _, ing := range ds.Ingredients {
		scores.AddN(ing.Name, engagement.Get(ing.RecipeID))
	}
	return assemble.List(assemble.Ranked(countEntries(scores), n)), nil
}

// MostViewedRecipes lists, in recipe input order, every recipe with at least
// one view and its view count.
func MostViewedRecipes(ds *models.Dataset) (assemble.Output, error) {
	views := interactionsOfType(ds, models.InteractionView)

	var entries []models.Entry
	for _, r := range ds.Recipes {
		if c := views.Get(r.ID); c > 0 {
			entries = append(entries, assemble.Pair(r.Label(), float64(c)))
		}
	}
	return assemble.List(entries), nil
}

// AvgStepsPerRecipe is the mean number of steps over recipes with at least
// one step. No steps yields 0.
func AvgStepsPerRecipe(ds *models.Dataset) (assemble.Output, error) {
	return assemble.Value(mean(joinindex.Group(ds.Steps, stepRecipe).Sizes())), nil
}

// AvgIngredientsPerRecipe is the mean number of ingredient rows over recipes
// with at least one ingredient. No ingredients yields 0.
func AvgIngredientsPerRecipe(ds *models.Dataset) (assemble.Output, error) {
	return assemble.Value(mean(joinindex.Group(ds.Ingredients, ingredientRecipe).Sizes())), nil
}

// PrepTimeRange emits the shortest and longest prep time among recipes with
// a present prep time. Ties resolve to the earliest recipe in input order for
// the shortest and the latest for the longest.
func PrepTimeRange(ds *models.Dataset) (assemble.Output, error) {
	valid := make([]models.Recipe, 0, len(ds.Recipes))
	for _, r := range ds.Recipes {
		if r.PrepTimeMin.IsPresent() {
			valid = append(valid, r)
		}
	}
	if len(valid) < 2 {
		return assemble.Output{}, ErrInsufficientData
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].PrepTimeMin.Or(0) < valid[j].PrepTimeMin.Or(0)
	})
	shortest, longest := valid[0], valid[len(valid)-1]

	return assemble.List([]models.Entry{
		assemble.Pair(shortest.Label()+" (Shortest)", shortest.PrepTimeMin.Or(0)),
		assemble.Pair(longest.Label()+" (Longest)", longest.PrepTimeMin.Or(0)),
	}), nil
}

// MostActiveUsers ranks user IDs by interaction count.
func MostActiveUsers(ds *models.Dataset, n int) (assemble.Output, error) {
	idx := joinindex.Count(ds.Interactions, interactionUser)
	return assemble.List(assemble.Ranked(countEntries(idx), n)), nil
}

// RecipeEngagementScore ranks every recipe by its number of interactions of
// the given types. Recipes without engagement are ranked with 0.
func RecipeEngagementScore(ds *models.Dataset, types []string, n int) (assemble.Output, error) {
	engagement := interactionsOfType(ds, types...)

	entries := make([]models.Entry, 0, len(ds.Recipes))
	for _, r := range ds.Recipes {
		entries = append(entries, assemble.Pair(r.Label(), float64(engagement.Get(r.ID))))
	}
	return assemble.List(assemble.Ranked(entries, n)), nil
}

// AvgPrepTime is the mean prep time over recipes with a present prep time.
// None yields 0.
func AvgPrepTime(ds *models.Dataset) (assemble.Output, error) {
	var sum float64
	var n int
	for _, r := range ds.Recipes {
		if v, ok := r.PrepTimeMin.Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return assemble.Value(0), nil
	}
	return assemble.Value(sum / float64(n)), nil
}

// PrepTimeByRecipe lists each recipe's prep time in input order, skipping
// recipes without one.
func PrepTimeByRecipe(ds *models.Dataset) (assemble.Output, error) {
	var entries []models.Entry
	for _, r := range ds.Recipes {
		if v, ok := r.PrepTimeMin.Value(); ok {
			entries = append(entries, assemble.Pair(r.Label(), v))
		}
	}
	return assemble.List(entries), nil
}

// PrepTimeLikesCorrelation is the Pearson correlation between prep time and
// like count over recipes with a present prep time.
func PrepTimeLikesCorrelation(ds *models.Dataset) (assemble.Output, error) {
	likes := interactionsOfType(ds, models.InteractionLike)

	var xs, ys []float64
	for _, r := range ds.Recipes {
		if v, ok := r.PrepTimeMin.Value(); ok {
			xs = append(xs, v)
			ys = append(ys, float64(likes.Get(r.ID)))
		}
	}
	if len(xs) < 2 {
		return assemble.Output{}, ErrInsufficientData
	}

	r, ok := pearson(xs, ys)
	if !ok {
		return assemble.Output{}, ErrInsufficientData
	}
	return assemble.Value(r), nil
}

// pearson returns the correlation coefficient of xs and ys. It reports false
// when either series has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n

	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	r := cov / math.Sqrt(vx*vy)
	// Clamp rounding drift.
	return math.Max(-1, math.Min(1, r)), true
}

func countEntries(idx *joinindex.CountIndex) []models.Entry {
	keys := idx.Keys()
	entries := make([]models.Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, assemble.Pair(k, float64(idx.Get(k))))
	}
	return entries
}

func mean(sizes []int) float64 {
	if len(sizes) == 0 {
		return 0
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	return float64(total) / float64(len(sizes))
}
