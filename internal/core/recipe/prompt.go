package recipe

import (
	"fmt"
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// SystemPrompt 生成食譜時的系統角色
const SystemPrompt = "You are a creative chef specializing in Yippee! noodles and pasta recipes. Generate unique, delicious, and practical recipes."

// FallbackRecipeText 模型呼叫失敗時使用的食譜
const FallbackRecipeText = `Title: Yippee! Classic Masala
Description: A simple and delicious Yippee noodles recipe
Cooking Time: 15 minutes
Difficulty: Easy
Tags: classic, vegetarian, quick

Ingredients:
- Yippee noodles: 1 packet
- Onions: 1, chopped
- Tomatoes: 1, chopped
- Oil: 1 tbsp
- Salt: to taste

Instructions:
1. Boil noodles according to package instructions (Time: 5 minutes)
2. Heat oil and sauté onions (Time: 3 minutes)
3. Add tomatoes and cook (Time: 3 minutes)
4. Add noodles and mix well (Time: 2 minutes)
5. Serve hot (Time: 2 minutes)
`

const outputFormat = `OUTPUT FORMAT:
Title: [Recipe Title]
Description: [Brief description]
Cooking Time: [Total minutes]
Difficulty: [Easy/Medium/Hard]
Tags: [comma-separated tags]

Ingredients:
- [Ingredient name]: [Quantity and unit] [Optional notes]

Instructions:
1. [Step 1 instruction] (Time: X minutes)
2. [Step 2 instruction] (Time: X minutes)
...

Please generate a complete recipe following this exact format.`

// BuildPrompt 根據偏好、NLP 分析與使用者檔案組出生成提示詞
func BuildPrompt(prefs *common.PreferenceProfile, insights *common.NLPInsights, profile *common.UserProfile) string {
	if insights == nil {
		insights = common.NeutralInsights()
	}

	mealTypes := make([]string, len(prefs.MealTypes))
	for i, mt := range prefs.MealTypes {
		mealTypes[i] = string(mt)
	}
	restrictions := make([]string, len(prefs.DietaryRestrictions))
	for i, dr := range prefs.DietaryRestrictions {
		restrictions[i] = string(dr)
	}
	entities := make([]string, len(insights.Entities))
	for i, e := range insights.Entities {
		entities[i] = fmt.Sprintf("%s (%s)", e.Text, e.Category)
	}

	var sb strings.Builder
	sb.WriteString("You are a creative chef specializing in Yippee! noodles and pasta recipes. ")
	sb.WriteString("Generate a unique, delicious recipe based on the following requirements:\n\n")

	fmt.Fprintf(&sb, "CUISINE: %s\n", prefs.Cuisine)
	fmt.Fprintf(&sb, "SPICE LEVEL: %s\n", prefs.SpiceLevel)
	fmt.Fprintf(&sb, "MEAL TYPE: %s\n", strings.Join(mealTypes, ", "))
	fmt.Fprintf(&sb, "MAX COOKING TIME: %s\n", prefs.MaxCookingTime)
	fmt.Fprintf(&sb, "DIETARY RESTRICTIONS: %s\n\n", common.StringSliceToString(restrictions))

	fmt.Fprintf(&sb, "AVAILABLE INGREDIENTS: %s\n\n", strings.Join(prefs.AvailableIngredients, ", "))

	sb.WriteString("NLP INSIGHTS:\n")
	fmt.Fprintf(&sb, "- Recognized entities: %s\n", common.StringSliceToString(entities))
	fmt.Fprintf(&sb, "- Key phrases: %s\n", common.StringSliceToString(insights.KeyPhrases))
	fmt.Fprintf(&sb, "- Sentiment: %s\n\n", orNeutral(insights.Sentiment))

	fmt.Fprintf(&sb, "USER PROFILE: %s\n\n", profile.Summary())

	sb.WriteString("REQUIREMENTS:\n")
	sb.WriteString("1. The recipe MUST use Yippee! noodles or pasta as the main ingredient\n")
	sb.WriteString("2. Be creative and innovative while staying within the Yippee! brand essence\n")
	sb.WriteString("3. Ensure the recipe is practical and achievable\n")
	sb.WriteString("4. Include precise measurements and clear instructions\n")
	sb.WriteString("5. Consider the user's spice preference and dietary restrictions\n")
	sb.WriteString("6. Make use of the available ingredients when possible\n\n")

	sb.WriteString(outputFormat)
	return sb.String()
}

// ImagePrompt 食譜成品圖的提示詞
func ImagePrompt(title string) string {
	return fmt.Sprintf("Delicious %s with Yippee noodles, professional food photography, appetizing presentation", title)
}

func orNeutral(sentiment string) string {
	if sentiment == "" {
		return "neutral"
	}
	return sentiment
}
