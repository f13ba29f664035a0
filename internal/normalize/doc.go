// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package normalize maps raw, loosely-keyed records onto a canonical schema.

Sources disagree on field names (recipeId vs recipe_id, id vs recipeId) and
on value types (numbers as strings, numbers as numbers, blanks). Every
aggregator reads canonical fields only, so the alias table for each entity
is declared once here and resolved once per record.

# Alias Resolution

Each canonical field lists its aliases in priority order. The first alias
that carries a non-blank value wins; later aliases are ignored even when
they disagree.

	schema := normalize.RecipeSchema
	rec := normalize.Normalize(models.RawRecord{"recipeId": "r1", "prepTimeMin": "15"}, schema)
	id, _ := rec.String(normalize.FieldID)       // "r1"
	prep := rec.Number(normalize.FieldPrepTime)  // Present(15)

# Numeric Coercion

ParseNumber is total: it never fails and never yields NaN. A blank or missing
value is absent; a supplied value that cannot be parsed is absent and
annotated as unparseable so callers can exclude it from denominators or
report it.

Normalization never returns an error. Malformed input degrades to absent
fields.
*/
package normalize
