package repositories

import (
	"context"
	"strings"
	"testing"
)

func TestImportBaseRecipes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "valid",
			input: `[{"id":"b-1","title":"Noodle Soup","cuisine":"Asian","cooking_time":10,"tags":["quick"],"ingredients":["Yippee noodles","broth"]}]`,
			want:  1,
		},
		{name: "empty list", input: `[]`, want: 0},
		{name: "missing id", input: `[{"title":"No Id"}]`, wantErr: true},
		{name: "unknown field", input: `[{"id":"x","colour":"red"}]`, wantErr: true},
		{name: "not json", input: `recipes`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryBaseRecipeRepository()
			n, err := ImportBaseRecipes(context.Background(), repo, strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ImportBaseRecipes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if n != tt.want {
				t.Errorf("imported %d, want %d", n, tt.want)
			}
			list, _ := repo.List(context.Background())
			if len(list) != tt.want {
				t.Errorf("repository holds %d recipes", len(list))
			}
			if tt.want > 0 && list[0].Type != TypeBaseRecipe {
				t.Errorf("Type = %q", list[0].Type)
			}
		})
	}
}
