// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeTables writes name -> content files into a fresh temp dir.
func writeTables(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func baseCSVTables() map[string]string {
	return map[string]string{
		"recipes.csv":      "id,title,difficulty,prepTimeMin\nr1,Pancakes,easy,15\nr2,Ragu,hard,40\n",
		"ingredients.csv":  "recipeId,name,quantity,unit\nr1,flour,200,g\nr2,tomato,3,\n",
		"interactions.csv": "interactionId,recipeId,userId,type,rating\ni1,r1,u1,view,\ni2,r2,u1,like,\n",
		"steps.csv":        "recipeId,stepNo,text\nr1,1,Mix\nr1,2,Fry\n",
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []map[string]any
	}{
		{
			name:  "header only",
			input: "id,title\n",
			want:  nil,
		},
		{
			name:  "empty stream",
			input: "",
			want:  nil,
		},
		{
			name:  "simple rows",
			input: "id,title\nr1,Soup\n",
			want:  []map[string]any{{"id": "r1", "title": "Soup"}},
		},
		{
			name:  "ragged rows",
			input: "id,title,difficulty\nr1,Soup\nr2,Stew,hard,extra\n",
			want: []map[string]any{
				{"id": "r1", "title": "Soup"},
				{"id": "r2", "title": "Stew", "difficulty": "hard"},
			},
		},
		{
			name:  "byte order mark and padded header",
			input: "\ufeffid , title\nr1,Soup\n",
			want:  []map[string]any{{"id": "r1", "title": "Soup"}},
		},
		{
			name:  "quoted commas",
			input: "id,title\nr1,\"Mac, cheese\"\n",
			want:  []map[string]any{{"id": "r1", "title": "Mac, cheese"}},
		},
		{
			name:  "duplicate header keeps first",
			input: "id,id\nfirst,second\n",
			want:  []map[string]any{{"id": "first"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("ReadCSV() = %d records, want %d", len(records), len(tt.want))
			}
			for i := range records {
				if !reflect.DeepEqual(map[string]any(records[i]), tt.want[i]) {
					t.Errorf("record %d = %v, want %v", i, records[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id,title\nr1,\"unterminated\n"))
	if err == nil {
		t.Error("ReadCSV() expected error for unterminated quote")
	}
}

func TestCSVSource_Load(t *testing.T) {
	dir := writeTables(t, baseCSVTables())

	ds, err := NewCSVSource(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Recipes) != 2 || len(ds.Ingredients) != 2 || len(ds.Interactions) != 2 || len(ds.Steps) != 2 {
		t.Errorf("Load() counts = %v", ds.Counts())
	}
	if ds.Users != nil {
		t.Errorf("Users = %v, want nil when users.csv is absent", ds.Users)
	}
	if ds.Recipes[1]["title"] != "Ragu" {
		t.Errorf("second recipe = %v", ds.Recipes[1])
	}
}

func TestCSVSource_SingularRecipeFile(t *testing.T) {
	files := baseCSVTables()
	files["recipe.csv"] = files["recipes.csv"]
	delete(files, "recipes.csv")
	files["users.csv"] = "userId,name,email\nu1,Ada,ada@example.com\n"
	dir := writeTables(t, files)

	ds, err := NewCSVSource(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Recipes) != 2 {
		t.Errorf("Recipes = %d, want 2 from recipe.csv", len(ds.Recipes))
	}
	if len(ds.Users) != 1 {
		t.Errorf("Users = %d, want 1", len(ds.Users))
	}
}

func TestCSVSource_MissingRequiredTable(t *testing.T) {
	files := baseCSVTables()
	delete(files, "steps.csv")
	dir := writeTables(t, files)

	_, err := NewCSVSource(dir).Load(context.Background())
	if !errors.Is(err, ErrMissingTable) {
		t.Errorf("Load() error = %v, want ErrMissingTable", err)
	}
}

func TestCSVSource_CancelledContext(t *testing.T) {
	dir := writeTables(t, baseCSVTables())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewCSVSource(dir).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
