// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package models

// RawRecord is one flat key/value record as delivered by a source.
// Values are strings or numbers; field names may drift between sources.
type RawRecord map[string]any

// Entity names used for record sets, metrics labels and report rows.
const (
	EntityRecipe      = "recipe"
	EntityIngredient  = "ingredient"
	EntityInteraction = "interaction"
	EntityStep        = "step"
	EntityUser        = "user"
)

// RawDataset holds the raw record sets read from a source, before
// normalization. Users is optional.
type RawDataset struct {
	Recipes      []RawRecord
	Ingredients  []RawRecord
	Interactions []RawRecord
	Steps        []RawRecord
	Users        []RawRecord
}

// Counts returns the number of records per entity.
func (d *RawDataset) Counts() map[string]int {
	return map[string]int{
		EntityRecipe:      len(d.Recipes),
		EntityIngredient:  len(d.Ingredients),
		EntityInteraction: len(d.Interactions),
		EntityStep:        len(d.Steps),
		EntityUser:        len(d.Users),
	}
}

// Total returns the number of records across all sets.
func (d *RawDataset) Total() int {
	return len(d.Recipes) + len(d.Ingredients) + len(d.Interactions) + len(d.Steps) + len(d.Users)
}
