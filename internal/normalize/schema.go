// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package normalize

import "github.com/tomtom215/larder/internal/models"

// Kind selects how a field's raw value is coerced.
type Kind uint8

const (
	// KindString fields are trimmed text.
	KindString Kind = iota
	// KindNumber fields are coerced with ParseNumber.
	KindNumber
)

// Canonical field names.
const (
	FieldID         = "id"
	FieldTitle      = "title"
	FieldAuthorID   = "authorId"
	FieldDifficulty = "difficulty"
	FieldPrepTime   = "prepTimeMin"
	FieldCookTime   = "cookTimeMin"
	FieldServings   = "servings"
	FieldRecipeID   = "recipeId"
	FieldName       = "name"
	FieldQuantity   = "quantity"
	FieldUnit       = "unit"
	FieldUserID     = "userId"
	FieldType       = "type"
	FieldRating     = "rating"
	FieldStepNo     = "stepNo"
	FieldText       = "text"
	FieldEmail      = "email"
)

// Field declares one canonical field and the raw keys that may carry it,
// in priority order.
type Field struct {
	Name    string
	Aliases []string
	Kind    Kind
}

// Schema is the canonical field set for one entity.
type Schema struct {
	Entity string
	Fields []Field
}

// Field returns the named field declaration.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RecipeSchema resolves recipe rows. "recipeId" is accepted for the recipe's
// own identifier because some exports key recipes that way.
var RecipeSchema = Schema{
	Entity: models.EntityRecipe,
	Fields: []Field{
		{Name: FieldID, Aliases: []string{"id", "recipeId", "recipe_id"}, Kind: KindString},
		{Name: FieldTitle, Aliases: []string{"title", "name"}, Kind: KindString},
		{Name: FieldAuthorID, Aliases: []string{"authorId", "author_id"}, Kind: KindString},
		{Name: FieldDifficulty, Aliases: []string{"difficulty"}, Kind: KindString},
		{Name: FieldPrepTime, Aliases: []string{"prepTimeMin", "prep_time_min"}, Kind: KindNumber},
		{Name: FieldCookTime, Aliases: []string{"cookTimeMin", "cook_time_min"}, Kind: KindNumber},
		{Name: FieldServings, Aliases: []string{"servings"}, Kind: KindNumber},
	},
}

// IngredientSchema resolves ingredient rows.
var IngredientSchema = Schema{
	Entity: models.EntityIngredient,
	Fields: []Field{
		{Name: FieldRecipeID, Aliases: []string{"recipeId", "recipe_id"}, Kind: KindString},
		{Name: FieldName, Aliases: []string{"name", "ingredient"}, Kind: KindString},
		{Name: FieldQuantity, Aliases: []string{"quantity"}, Kind: KindNumber},
		{Name: FieldUnit, Aliases: []string{"unit"}, Kind: KindString},
	},
}

// InteractionSchema resolves interaction rows.
var InteractionSchema = Schema{
	Entity: models.EntityInteraction,
	Fields: []Field{
		{Name: FieldID, Aliases: []string{"id", "interactionId", "interaction_id"}, Kind: KindString},
		{Name: FieldRecipeID, Aliases: []string{"recipeId", "recipe_id"}, Kind: KindString},
		{Name: FieldUserID, Aliases: []string{"userId", "user_id"}, Kind: KindString},
		{Name: FieldType, Aliases: []string{"type"}, Kind: KindString},
		{Name: FieldRating, Aliases: []string{"rating"}, Kind: KindNumber},
	},
}

// StepSchema resolves step rows.
var StepSchema = Schema{
	Entity: models.EntityStep,
	Fields: []Field{
		{Name: FieldRecipeID, Aliases: []string{"recipeId", "recipe_id"}, Kind: KindString},
		{Name: FieldStepNo, Aliases: []string{"stepNo", "step_no"}, Kind: KindNumber},
		{Name: FieldText, Aliases: []string{"text", "instruction"}, Kind: KindString},
	},
}

// UserSchema resolves user rows.
var UserSchema = Schema{
	Entity: models.EntityUser,
	Fields: []Field{
		{Name: FieldID, Aliases: []string{"id", "userId", "user_id"}, Kind: KindString},
		{Name: FieldName, Aliases: []string{"name"}, Kind: KindString},
		{Name: FieldEmail, Aliases: []string{"email"}, Kind: KindString},
	},
}
