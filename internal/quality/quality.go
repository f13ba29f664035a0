// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/larder/internal/joinindex"
	"github.com/tomtom215/larder/internal/models"
	"github.com/tomtom215/larder/internal/validation"
)

// Rule structs. Field names double as the lookup key into issueMessages.

type recipeRules struct {
	Title       string   `validate:"required"`
	Difficulty  string   `validate:"difficulty"`
	PrepTimeMin *float64 `validate:"omitempty,gte=0"`
	CookTimeMin *float64 `validate:"omitempty,gte=0"`
	Servings    *float64 `validate:"omitempty,gt=0"`
}

type ingredientRules struct {
	Name string `validate:"required"`
}

type stepRules struct {
	Text string `validate:"required"`
}

type userRules struct {
	Email string `validate:"loose_email"`
}

type interactionRules struct {
	Type string `validate:"interaction_type"`
}

type ratingRules struct {
	Rating float64 `validate:"gte=0,lte=5"`
}

// issueMessages maps "entity.Field" to the issue text. %v receives the
// offending value.
var issueMessages = map[string]string{
	"recipe.Title":       "Title missing",
	"recipe.Difficulty":  "Invalid difficulty '%v'",
	"recipe.PrepTimeMin": "prepTimeMin is negative",
	"recipe.CookTimeMin": "cookTimeMin is negative",
	"recipe.Servings":    "servings must be positive",
	"ingredient.Name":    "Ingredient name missing",
	"step.Text":          "Step text missing",
	"user.Email":         "Invalid email '%v'",
	"interaction.Type":   "Invalid interaction type '%v'",
	"interaction.Rating": "Rating %v out of range",
}

// Cross-set and coercion issues that no struct tag can express.
const (
	issueNoIngredients   = "No ingredients found"
	issueNoSteps         = "No steps found"
	issueInvalidQuantity = "Invalid quantity"
	issueInvalidRating   = "Invalid rating"
)

// Check runs every data-quality rule over ds. Issues are listed per entity
// in input order: recipes, ingredients, steps, users, interactions.
func Check(ds *models.Dataset) *models.QualityReport {
	b := &builder{byEntity: map[string]int{}, issues: []models.QualityIssue{}}

	ingredients := joinindex.Count(ds.Ingredients, func(i models.Ingredient) string { return i.RecipeID })
	steps := joinindex.Count(ds.Steps, func(s models.Step) string { return s.RecipeID })

	for _, rec := range ds.Recipes {
		b.check(models.EntityRecipe, rec.ID, &recipeRules{
			Title:       rec.Title,
			Difficulty:  rec.Difficulty,
			PrepTimeMin: measurePtr(rec.PrepTimeMin),
			CookTimeMin: measurePtr(rec.CookTimeMin),
			Servings:    measurePtr(rec.Servings),
		})
		if !ingredients.Has(rec.ID) {
			b.add(models.EntityRecipe, rec.ID, issueNoIngredients)
		}
		if !steps.Has(rec.ID) {
			b.add(models.EntityRecipe, rec.ID, issueNoSteps)
		}
	}

	for _, ing := range ds.Ingredients {
		b.check(models.EntityIngredient, ing.RecipeID, &ingredientRules{Name: ing.Name})
		if ing.Quantity.IsUnparseable() {
			b.add(models.EntityIngredient, ing.RecipeID, issueInvalidQuantity)
		}
	}

	for _, st := range ds.Steps {
		b.check(models.EntityStep, st.RecipeID, &stepRules{Text: st.Text})
	}

	for _, u := range ds.Users {
		b.check(models.EntityUser, u.ID, &userRules{Email: u.Email})
	}

	for _, it := range ds.Interactions {
		b.check(models.EntityInteraction, it.ID, &interactionRules{Type: it.Type})
		if it.Type != models.InteractionRating {
			continue
		}
		v, ok := it.Rating.Value()
		if !ok {
			b.add(models.EntityInteraction, it.ID, issueInvalidRating)
			continue
		}
		b.check(models.EntityInteraction, it.ID, &ratingRules{Rating: v})
	}

	return &models.QualityReport{
		GeneratedAt: time.Now().UTC(),
		Summary: models.QualitySummary{
			RecordsChecked: len(ds.Recipes) + len(ds.Ingredients) + len(ds.Steps) +
				len(ds.Users) + len(ds.Interactions),
			TotalIssues: len(b.issues),
			ByEntity:    b.byEntity,
		},
		Issues: b.issues,
	}
}

type builder struct {
	byEntity map[string]int
	issues   []models.QualityIssue
}

func (b *builder) add(entity, id, issue string) {
	b.issues = append(b.issues, models.QualityIssue{Entity: entity, ID: id, Issue: issue})
	b.byEntity[entity]++
}

func (b *builder) check(entity, id string, rules interface{}) {
	verr := validation.ValidateStruct(rules)
	if verr == nil {
		return
	}
	for _, fe := range verr.Errors() {
		msg, ok := issueMessages[entity+"."+fe.Field()]
		if !ok {
			b.add(entity, id, fe.Error())
			continue
		}
		if strings.Contains(msg, "%v") {
			msg = fmt.Sprintf(msg, fe.Value())
		}
		b.add(entity, id, msg)
	}
}

func measurePtr(m models.Measure) *float64 {
	v, ok := m.Value()
	if !ok {
		return nil
	}
	return &v
}
