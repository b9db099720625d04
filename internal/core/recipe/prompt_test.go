package recipe

import (
	"strings"
	"testing"

	"recipe-recommender/internal/pkg/common"
)

func TestBuildPrompt(t *testing.T) {
	prefs := &common.PreferenceProfile{
		Cuisine:              common.CuisineIndian,
		SpiceLevel:           common.SpiceExtraSpicy,
		MealTypes:            []common.MealType{common.MealLunch, common.MealDinner},
		MaxCookingTime:       common.CookingTime30,
		AvailableIngredients: []string{"onion", "paneer"},
	}
	insights := &common.NLPInsights{
		Entities:   []common.NLPEntity{{Text: "paneer", Category: "Food", ConfidenceScore: 0.9}},
		KeyPhrases: []string{"spicy dinner"},
		Sentiment:  "positive",
	}

	prompt := BuildPrompt(prefs, insights, nil)

	for _, want := range []string{
		"CUISINE: Indian",
		"SPICE LEVEL: Extra Spicy",
		"MEAL TYPE: Lunch, Dinner",
		"MAX COOKING TIME: 30 mins",
		"DIETARY RESTRICTIONS: None",
		"AVAILABLE INGREDIENTS: onion, paneer",
		"- Recognized entities: paneer (Food)",
		"- Key phrases: spicy dinner",
		"- Sentiment: positive",
		"USER PROFILE: New user",
		"Cooking Time: [Total minutes]",
		"1. [Step 1 instruction] (Time: X minutes)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	prefs.DietaryRestrictions = []common.DietaryRestriction{common.DietVegan, common.DietNutFree}
	profile := &common.UserProfile{UserID: "u1", SavedRecipes: []string{"base-1"}}
	prompt = BuildPrompt(prefs, nil, profile)
	if !strings.Contains(prompt, "DIETARY RESTRICTIONS: Vegan, Nut-Free") {
		t.Error("restrictions not listed")
	}
	if !strings.Contains(prompt, "- Sentiment: neutral") {
		t.Error("nil insights should read as neutral")
	}
	if !strings.Contains(prompt, "USER PROFILE: saved recipes: 1") {
		t.Error("profile summary missing")
	}
}

func TestImagePrompt(t *testing.T) {
	want := "Delicious Masala Bowl with Yippee noodles, professional food photography, appetizing presentation"
	if got := ImagePrompt("Masala Bowl"); got != want {
		t.Errorf("ImagePrompt() = %q", got)
	}
}
