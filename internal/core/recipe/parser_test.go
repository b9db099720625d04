package recipe

import (
	"fmt"
	"strings"
	"testing"

	"recipe-recommender/internal/pkg/common"
)

func TestParseTemplateRoundTrip(t *testing.T) {
	want := common.ParsedRecipe{
		Title:       "Yippee! Garden Noodles",
		Description: "Fresh vegetables tossed with noodles",
		CookingTime: 20,
		Difficulty:  "Easy",
		Tags:        []string{"vegetarian", "quick", "weeknight dinner"},
		Ingredients: []common.RecipeIngredient{
			{Name: "Yippee noodles", Quantity: "2"},
			{Name: "Carrots", Quantity: "1"},
			{Name: "Peas", Quantity: "50g"},
		},
		Instructions: []common.RecipeInstruction{
			{Instruction: "Boil the noodles"},
			{Instruction: "Stir fry the vegetables"},
			{Instruction: "Toss together"},
		},
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", want.Title)
	fmt.Fprintf(&sb, "Description: %s\n", want.Description)
	fmt.Fprintf(&sb, "Cooking Time: %d minutes\n", want.CookingTime)
	fmt.Fprintf(&sb, "Difficulty: %s\n", want.Difficulty)
	fmt.Fprintf(&sb, "Tags: %s\n\n", strings.Join(want.Tags, ", "))
	sb.WriteString("Ingredients:\n")
	for _, ing := range want.Ingredients {
		fmt.Fprintf(&sb, "- %s: %s\n", ing.Name, ing.Quantity)
	}
	sb.WriteString("\nInstructions:\n")
	for i, ins := range want.Instructions {
		fmt.Fprintf(&sb, "%d. %s (Time: %d minutes)\n", i+1, ins.Instruction, i+2)
	}

	got := Parse(sb.String())

	if got.Title != want.Title {
		t.Errorf("Title = %q, want %q", got.Title, want.Title)
	}
	if got.Description != want.Description {
		t.Errorf("Description = %q, want %q", got.Description, want.Description)
	}
	if got.CookingTime != want.CookingTime {
		t.Errorf("CookingTime = %d, want %d", got.CookingTime, want.CookingTime)
	}
	if got.Difficulty != want.Difficulty {
		t.Errorf("Difficulty = %q, want %q", got.Difficulty, want.Difficulty)
	}
	if strings.Join(got.Tags, "|") != strings.Join(want.Tags, "|") {
		t.Errorf("Tags = %v, want %v", got.Tags, want.Tags)
	}
	if len(got.Ingredients) != len(want.Ingredients) {
		t.Fatalf("Ingredients = %d, want %d", len(got.Ingredients), len(want.Ingredients))
	}
	for i := range want.Ingredients {
		if got.Ingredients[i].Name != want.Ingredients[i].Name {
			t.Errorf("ingredient %d = %q, want %q", i, got.Ingredients[i].Name, want.Ingredients[i].Name)
		}
	}
	if len(got.Instructions) != len(want.Instructions) {
		t.Fatalf("Instructions = %d, want %d", len(got.Instructions), len(want.Instructions))
	}
	for i, ins := range got.Instructions {
		if ins.StepNumber != i+1 {
			t.Errorf("step %d numbered %d", i, ins.StepNumber)
		}
		if ins.Instruction != want.Instructions[i].Instruction {
			t.Errorf("step %d = %q, want %q", i, ins.Instruction, want.Instructions[i].Instruction)
		}
		if ins.TimeMinutes == nil || *ins.TimeMinutes != i+2 {
			t.Errorf("step %d time = %v, want %d", i, ins.TimeMinutes, i+2)
		}
	}
}

func TestParseCookingTime(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"Cooking Time: 25 minutes", 25},
		{"Cooking Time: 45", 45},
		{"Cooking Time: not-a-number", 30},
		{"Cooking Time:", 30},
		{"Cooking Time: about 20 minutes", 30},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Parse(tt.line).CookingTime; got != tt.want {
				t.Errorf("CookingTime = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	for _, input := range []string{"", "   \n\n", "nothing recognizable here"} {
		got := Parse(input)
		if got.Title != "Yippee! Fusion Delight" {
			t.Errorf("Parse(%q).Title = %q", input, got.Title)
		}
		if got.CookingTime != DefaultCookingTime || got.Difficulty != DefaultDifficulty {
			t.Errorf("Parse(%q) defaults = %d/%q", input, got.CookingTime, got.Difficulty)
		}
		if got.Tags == nil || got.Ingredients == nil || got.Instructions == nil {
			t.Errorf("Parse(%q) returned nil lists", input)
		}
	}

	if got := ParseWithCuisine("Difficulty: Hard", common.CuisineThai).Title; got != "Yippee! Thai Delight" {
		t.Errorf("synthesized title = %q", got)
	}
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line     string
		name     string
		quantity string
		notes    string
	}{
		{"- Chicken: 300g, sliced", "Chicken", "300g,", "sliced"},
		{"- Salt: to taste", "Salt", "to", "taste"},
		{"- Soy sauce: 2 tbsp", "Soy sauce", "2", "tbsp"},
		{"- Garlic:   4    cloves, minced ", "Garlic", "4", "cloves, minced"},
		{"-Ratio: 1:2", "Ratio", "1:2", ""},
		{"- Water:", "Water", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Parse("Ingredients:\n" + tt.line).Ingredients
			if len(got) != 1 {
				t.Fatalf("got %d ingredients, want 1", len(got))
			}
			ing := got[0]
			if ing.Name != tt.name || ing.Quantity != tt.quantity {
				t.Errorf("ingredient = {%q %q}, want {%q %q}", ing.Name, ing.Quantity, tt.name, tt.quantity)
			}
			switch {
			case tt.notes == "" && ing.Notes != nil:
				t.Errorf("notes = %q, want absent", *ing.Notes)
			case tt.notes != "" && (ing.Notes == nil || *ing.Notes != tt.notes):
				t.Errorf("notes = %v, want %q", ing.Notes, tt.notes)
			}
		})
	}
}

func TestParseInstructionLine(t *testing.T) {
	got := Parse("Instructions:\n1. Boil noodles (Time: 5 minutes)").Instructions
	if len(got) != 1 {
		t.Fatalf("got %d instructions, want 1", len(got))
	}
	if got[0].StepNumber != 1 || got[0].Instruction != "Boil noodles" {
		t.Errorf("instruction = %#v", got[0])
	}
	if got[0].TimeMinutes == nil || *got[0].TimeMinutes != 5 {
		t.Errorf("time = %v, want 5", got[0].TimeMinutes)
	}

	text := `Instructions:
7. First step
3 Second step without a period
Not a step
9. Third step (Time: soon)
10. Fourth step (Time: 4)`
	steps := Parse(text).Instructions
	wantText := []string{"First step", "3 Second step without a period", "Third step", "Fourth step"}
	if len(steps) != len(wantText) {
		t.Fatalf("got %d instructions, want %d", len(steps), len(wantText))
	}
	for i, s := range steps {
		if s.StepNumber != i+1 {
			t.Errorf("step %d numbered %d", i, s.StepNumber)
		}
		if s.Instruction != wantText[i] {
			t.Errorf("step %d = %q, want %q", i, s.Instruction, wantText[i])
		}
	}
	if steps[2].TimeMinutes != nil {
		t.Errorf("unparsable step time = %d, want absent", *steps[2].TimeMinutes)
	}
	if steps[3].TimeMinutes == nil || *steps[3].TimeMinutes != 4 {
		t.Errorf("step 4 time = %v, want 4", steps[3].TimeMinutes)
	}
}

func TestParseSections(t *testing.T) {
	text := `- Orphan: 1 cup
1. Orphan step
Ingredients:
- Noodles: 1 packet
no colon line
2. looks like a step
Instructions:
- Not an ingredient: 1
1. Cook
Tags:`

	got := Parse(text)
	if len(got.Ingredients) != 1 || got.Ingredients[0].Name != "Noodles" {
		t.Errorf("Ingredients = %#v", got.Ingredients)
	}
	if len(got.Instructions) != 1 || got.Instructions[0].Instruction != "Cook" {
		t.Errorf("Instructions = %#v", got.Instructions)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
}

func TestParseHeaderPriority(t *testing.T) {
	// 區段內的標題行仍然優先於區段內容
	text := `Instructions:
1. Mix
Title: Late Title
2. Serve`

	got := Parse(text)
	if got.Title != "Late Title" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Instructions) != 2 || got.Instructions[1].StepNumber != 2 {
		t.Errorf("Instructions = %#v", got.Instructions)
	}
}

func TestParseFallbackText(t *testing.T) {
	got := Parse(FallbackRecipeText)
	if got.Title != "Yippee! Classic Masala" || got.CookingTime != 15 || got.Difficulty != "Easy" {
		t.Errorf("header = %q/%d/%q", got.Title, got.CookingTime, got.Difficulty)
	}
	if len(got.Ingredients) != 5 || len(got.Instructions) != 5 {
		t.Errorf("got %d ingredients, %d instructions", len(got.Ingredients), len(got.Instructions))
	}
}
