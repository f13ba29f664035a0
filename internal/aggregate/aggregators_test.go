// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package aggregate

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/larder/internal/assemble"
	"github.com/tomtom215/larder/internal/models"
)

func recipe(id, title, difficulty string, prep models.Measure) models.Recipe {
	return models.Recipe{ID: id, Title: title, Difficulty: difficulty, PrepTimeMin: prep}
}

func interaction(recipeID, userID, typ string) models.Interaction {
	return models.Interaction{RecipeID: recipeID, UserID: userID, Type: typ}
}

func labels(out assemble.Output) []string {
	ls := make([]string, len(out.Entries))
	for i, e := range out.Entries {
		ls[i] = e.Label
	}
	return ls
}

func values(out assemble.Output) []float64 {
	vs := make([]float64, len(out.Entries))
	for i, e := range out.Entries {
		vs[i] = e.Value
	}
	return vs
}

func mustOK(t *testing.T) func(assemble.Output, error) assemble.Output {
	t.Helper()
	return func(out assemble.Output, err error) assemble.Output {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}
}

// ===================================================================================================
// Categorical Distribution
// ===================================================================================================

func TestDifficultyDistribution(t *testing.T) {
	tests := []struct {
		name    string
		recipes []models.Recipe
		want    []float64
	}{
		{
			name: "empty input emits every category at zero",
			want: []float64{0, 0, 0},
		},
		{
			name: "out-of-set values are ignored",
			recipes: []models.Recipe{
				recipe("r1", "", "easy", models.Absent()),
				recipe("r2", "", "hard", models.Absent()),
				recipe("r3", "", "hard", models.Absent()),
				recipe("r4", "", "extreme", models.Absent()),
				recipe("r5", "", "", models.Absent()),
			},
			want: []float64{1, 0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustOK(t)(DifficultyDistribution(&models.Dataset{Recipes: tt.recipes}))
			if got := labels(out); !reflect.DeepEqual(got, models.Difficulties) {
				t.Errorf("labels = %v, want %v", got, models.Difficulties)
			}
			if got := values(out); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("values = %v, want %v", got, tt.want)
			}

			inSet := 0
			for _, r := range tt.recipes {
				switch r.Difficulty {
				case "easy", "medium", "hard":
					inSet++
				}
			}
			sum := 0.0
			for _, v := range values(out) {
				sum += v
			}
			if int(sum) != inSet {
				t.Errorf("distribution sum = %v, want %d", sum, inSet)
			}
		})
	}
}

// ===================================================================================================
// Bivariate Scatter
// ===================================================================================================

func TestPrepTimeVsLikes(t *testing.T) {
	ds := &models.Dataset{
		Recipes: []models.Recipe{
			recipe("r1", "Soup", "easy", models.Present(30)),
			recipe("r2", "Salad", "easy", models.Present(5)),
			recipe("r3", "Stew", "hard", models.Absent()),
		},
		Interactions: []models.Interaction{
			interaction("r1", "u1", "like"),
			interaction("r1", "u2", "like"),
			interaction("r3", "u1", "like"),
			interaction("r2", "u1", "view"),
			interaction("orphan", "u1", "like"),
		},
	}

	out := mustOK(t)(PrepTimeVsLikes(ds))
	if len(out.Entries) != 3 {
		t.Fatalf("points = %d, want one per recipe", len(out.Entries))
	}
	if got := values(out); !reflect.DeepEqual(got, []float64{2, 0, 1}) {
		t.Errorf("likes = %v, want [2 0 1]", got)
	}
	if out.Entries[0].X == nil || *out.Entries[0].X != 30 {
		t.Errorf("r1 x = %v, want 30", out.Entries[0].X)
	}
	if out.Entries[2].X != nil {
		t.Errorf("r3 has no prep time; x should be omitted, got %v", *out.Entries[2].X)
	}
}

// ===================================================================================================
// Rankings
// ===================================================================================================

func TestMostCommonIngredients(t *testing.T) {
	var ings []models.Ingredient
	add := func(name string, n int) {
		for i := 0; i < n; i++ {
			ings = append(ings, models.Ingredient{RecipeID: "r", Name: name})
		}
	}
	add("salt", 3)
	add("flour", 5)
	add("egg", 3)
	add("", 9)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		add(name, 1)
	}

	out := mustOK(t)(MostCommonIngredients(&models.Dataset{Ingredients: ings}, 10))
	if len(out.Entries) != 10 {
		t.Fatalf("len = %d, want truncation to 10", len(out.Entries))
	}
	want := []string{"flour", "salt", "egg", "a", "b", "c", "d", "e", "f", "g"}
	if got := labels(out); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	assertDescending(t, out)

	again := mustOK(t)(MostCommonIngredients(&models.Dataset{Ingredients: ings}, 10))
	if !reflect.DeepEqual(out, again) {
		t.Error("ranking is not identical on re-run")
	}
}

func TestHighEngagementIngredients(t *testing.T) {
	ds := &models.Dataset{
		Ingredients: []models.Ingredient{
			{RecipeID: "r1", Name: "butter"},
			{RecipeID: "r2", Name: "butter"},
			{RecipeID: "r2", Name: "sugar"},
			{RecipeID: "r3", Name: "kale"},
		},
		Interactions: []models.Interaction{
			interaction("r1", "u1", "like"),
			interaction("r2", "u1", "attempt"),
			interaction("r2", "u2", "like"),
			interaction("r2", "u3", "view"),
			interaction("r3", "u3", "rating"),
		},
	}

	out := mustOK(t)(HighEngagementIngredients(ds, []string{"like", "attempt"}, 10))
	if got := labels(out); !reflect.DeepEqual(got, []string{"butter", "sugar", "kale"}) {
		t.Errorf("labels = %v", got)
	}
	if got := values(out); !reflect.DeepEqual(got, []float64{3, 2, 0}) {
		t.Errorf("values = %v, want [3 2 0]", got)
	}
}

func TestMostActiveUsers(t *testing.T) {
	var ins []models.Interaction
	for user, n := range map[string]int{"u1": 1, "u2": 4, "u3": 2, "u4": 2, "u5": 3, "u6": 1} {
		for i := 0; i < n; i++ {
			ins = append(ins, interaction("r1", user, "view"))
		}
	}
	ins = append(ins, interaction("r1", "", "view"))

	out := mustOK(t)(MostActiveUsers(&models.Dataset{Interactions: ins}, 5))
	if len(out.Entries) != 5 {
		t.Fatalf("len = %d, want 5", len(out.Entries))
	}
	if out.Entries[0].Label != "u2" || out.Entries[0].Value != 4 {
		t.Errorf("top user = %+v, want u2/4", out.Entries[0])
	}
	assertDescending(t, out)
	for _, e := range out.Entries {
		if e.Label == "" {
			t.Error("blank user id must not be ranked")
		}
	}
}

func TestRecipeEngagementScore(t *testing.T) {
	ds := &models.Dataset{
		Recipes: []models.Recipe{
			recipe("r1", "A", "easy", models.Absent()),
			recipe("r2", "B", "easy", models.Absent()),
			recipe("r3", "C", "easy", models.Absent()),
		},
		Interactions: []models.Interaction{
			interaction("r2", "u1", "view"),
			interaction("r2", "u1", "like"),
			interaction("r3", "u1", "attempt"),
			interaction("r3", "u1", "rating"),
		},
	}

	out := mustOK(t)(RecipeEngagementScore(ds, []string{"like", "attempt", "view"}, 10))
	if got := labels(out); !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
		t.Errorf("labels = %v, want [B C A]", got)
	}
	if got := values(out); !reflect.DeepEqual(got, []float64{2, 1, 0}) {
		t.Errorf("values = %v, want [2 1 0]", got)
	}
}

// ===================================================================================================
// Filtered Existence Join
// ===================================================================================================

func TestMostViewedRecipes(t *testing.T) {
	tests := []struct {
		name         string
		interactions []models.Interaction
		wantLabels   []string
		wantValues   []float64
	}{
		{
			name: "no views yields empty list",
		},
		{
			name:         "exactly one view",
			interactions: []models.Interaction{interaction("r2", "u1", "view")},
			wantLabels:   []string{"Two"},
			wantValues:   []float64{1},
		},
		{
			name: "input order not count order",
			interactions: []models.Interaction{
				interaction("r3", "u1", "view"),
				interaction("r3", "u2", "view"),
				interaction("r1", "u1", "view"),
				interaction("r1", "u1", "like"),
			},
			wantLabels: []string{"One", "Three"},
			wantValues: []float64{1, 2},
		},
	}

	recipes := []models.Recipe{
		recipe("r1", "One", "easy", models.Absent()),
		recipe("r2", "Two", "easy", models.Absent()),
		recipe("r3", "Three", "easy", models.Absent()),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustOK(t)(MostViewedRecipes(&models.Dataset{Recipes: recipes, Interactions: tt.interactions}))
			if len(out.Entries) != len(tt.wantLabels) {
				t.Fatalf("entries = %+v, want labels %v", out.Entries, tt.wantLabels)
			}
			for i, e := range out.Entries {
				if e.Value == 0 {
					t.Errorf("zero-view recipe %q emitted", e.Label)
				}
				if e.Label != tt.wantLabels[i] || e.Value != tt.wantValues[i] {
					t.Errorf("entry[%d] = %+v, want %s/%v", i, e, tt.wantLabels[i], tt.wantValues[i])
				}
			}
		})
	}
}

// ===================================================================================================
// Scalar Means
// ===================================================================================================

func TestAvgStepsPerRecipe(t *testing.T) {
	tests := []struct {
		name  string
		steps []models.Step
		want  float64
	}{
		{name: "no groups", want: 0},
		{
			name:  "groups of 2, 4 and 6",
			steps: stepsFor(map[string]int{"r1": 2, "r2": 4, "r3": 6}),
			want:  4,
		},
		{
			name:  "blank recipe ids are skipped",
			steps: append(stepsFor(map[string]int{"r1": 3}), models.Step{Text: "orphan"}),
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustOK(t)(AvgStepsPerRecipe(&models.Dataset{Steps: tt.steps}))
			if out.Scalar == nil || *out.Scalar != tt.want {
				t.Errorf("scalar = %v, want %v", out.Scalar, tt.want)
			}
		})
	}
}

func TestAvgIngredientsPerRecipe(t *testing.T) {
	ings := []models.Ingredient{
		{RecipeID: "r1", Name: "a"},
		{RecipeID: "r1", Name: "a"},
		{RecipeID: "r2", Name: "b"},
	}
	out := mustOK(t)(AvgIngredientsPerRecipe(&models.Dataset{Ingredients: ings}))
	if *out.Scalar != 1.5 {
		t.Errorf("scalar = %v, want 1.5", *out.Scalar)
	}

	empty := mustOK(t)(AvgIngredientsPerRecipe(&models.Dataset{}))
	if *empty.Scalar != 0 {
		t.Errorf("empty scalar = %v, want 0", *empty.Scalar)
	}
}

func TestAvgPrepTime(t *testing.T) {
	ds := &models.Dataset{Recipes: []models.Recipe{
		recipe("r1", "", "", models.Present(10)),
		recipe("r2", "", "", models.Unparseable()),
		recipe("r3", "", "", models.Present(20)),
	}}
	out := mustOK(t)(AvgPrepTime(ds))
	if *out.Scalar != 15 {
		t.Errorf("avg = %v, want 15", *out.Scalar)
	}

	none := mustOK(t)(AvgPrepTime(&models.Dataset{}))
	if *none.Scalar != 0 {
		t.Errorf("avg of none = %v, want 0", *none.Scalar)
	}
}

// ===================================================================================================
// Extremum Pair
// ===================================================================================================

func TestPrepTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		recipes []models.Recipe
		want    []models.Entry
		wantErr error
	}{
		{
			name:    "no recipes",
			wantErr: ErrInsufficientData,
		},
		{
			name: "single valid recipe",
			recipes: []models.Recipe{
				recipe("r1", "Only", "", models.Present(5)),
				recipe("r2", "Missing", "", models.Absent()),
				recipe("r3", "Bad", "", models.Unparseable()),
			},
			wantErr: ErrInsufficientData,
		},
		{
			name: "shortest and longest",
			recipes: []models.Recipe{
				recipe("r1", "Five", "", models.Present(5)),
				recipe("r2", "Thirty", "", models.Present(30)),
				recipe("r3", "Twelve", "", models.Present(12)),
			},
			want: []models.Entry{
				{Label: "Five (Shortest)", Value: 5},
				{Label: "Thirty (Longest)", Value: 30},
			},
		},
		{
			name: "zero is a valid prep time",
			recipes: []models.Recipe{
				recipe("r1", "Raw", "", models.Present(0)),
				recipe("r2", "Baked", "", models.Present(40)),
			},
			want: []models.Entry{
				{Label: "Raw (Shortest)", Value: 0},
				{Label: "Baked (Longest)", Value: 40},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := PrepTimeRange(&models.Dataset{Recipes: tt.recipes})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(out.Entries, tt.want) {
				t.Errorf("entries = %+v, want %+v", out.Entries, tt.want)
			}
		})
	}
}

func TestPrepTimeByRecipe(t *testing.T) {
	ds := &models.Dataset{Recipes: []models.Recipe{
		recipe("r1", "A", "", models.Present(12)),
		recipe("r2", "B", "", models.Absent()),
		recipe("r3", "", "", models.Present(3)),
	}}
	out := mustOK(t)(PrepTimeByRecipe(ds))
	want := []models.Entry{{Label: "A", Value: 12}, {Label: "r3", Value: 3}}
	if !reflect.DeepEqual(out.Entries, want) {
		t.Errorf("entries = %+v, want %+v", out.Entries, want)
	}
}

// ===================================================================================================
// Correlation
// ===================================================================================================

func TestPrepTimeLikesCorrelation(t *testing.T) {
	likes := func(id string, n int) []models.Interaction {
		var out []models.Interaction
		for i := 0; i < n; i++ {
			out = append(out, interaction(id, "u", "like"))
		}
		return out
	}

	t.Run("perfect positive", func(t *testing.T) {
		ds := &models.Dataset{
			Recipes: []models.Recipe{
				recipe("r1", "", "", models.Present(10)),
				recipe("r2", "", "", models.Present(20)),
				recipe("r3", "", "", models.Present(30)),
			},
		}
		ds.Interactions = append(ds.Interactions, likes("r1", 1)...)
		ds.Interactions = append(ds.Interactions, likes("r2", 2)...)
		ds.Interactions = append(ds.Interactions, likes("r3", 3)...)

		out := mustOK(t)(PrepTimeLikesCorrelation(ds))
		if math.Abs(*out.Scalar-1) > 1e-9 {
			t.Errorf("r = %v, want 1", *out.Scalar)
		}
	})

	t.Run("zero variance", func(t *testing.T) {
		ds := &models.Dataset{Recipes: []models.Recipe{
			recipe("r1", "", "", models.Present(10)),
			recipe("r2", "", "", models.Present(20)),
		}}
		if _, err := PrepTimeLikesCorrelation(ds); !errors.Is(err, ErrInsufficientData) {
			t.Errorf("err = %v, want ErrInsufficientData", err)
		}
	})

	t.Run("fewer than two points", func(t *testing.T) {
		ds := &models.Dataset{Recipes: []models.Recipe{recipe("r1", "", "", models.Present(10))}}
		if _, err := PrepTimeLikesCorrelation(ds); !errors.Is(err, ErrInsufficientData) {
			t.Errorf("err = %v, want ErrInsufficientData", err)
		}
	})
}

func stepsFor(counts map[string]int) []models.Step {
	var steps []models.Step
	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		for i := 0; i < counts[id]; i++ {
			steps = append(steps, models.Step{RecipeID: id, StepNo: models.Present(float64(i + 1))})
		}
	}
	return steps
}

func assertDescending(t *testing.T, out assemble.Output) {
	t.Helper()
	for i := 1; i < len(out.Entries); i++ {
		if out.Entries[i].Value > out.Entries[i-1].Value {
			t.Errorf("entries not descending at %d: %+v", i, out.Entries)
			return
		}
	}
}
