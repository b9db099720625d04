package recommendation

import (
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// 各評分因子的權重
const (
	WeightCuisine     = 0.30
	WeightMealType    = 0.10
	WeightCookingTime = 0.15
	WeightIngredients = 0.25
	WeightDietary     = 0.20
	WeightSavedRecipe = 0.10
	WeightSpice       = 0.10
	WeightEasy        = 0.05

	// 超出最長烹飪時間但仍給一半分數的緩衝（分鐘）
	cookingTimeGrace = 15
	// 候選食譜沒有烹飪時間時使用
	defaultCookingTime = 30
)

// restrictedIngredients 各飲食限制禁止的食材
var restrictedIngredients = map[common.DietaryRestriction][]string{
	common.DietVegetarian: {"chicken", "beef", "pork", "lamb", "fish", "meat", "egg"},
	common.DietVegan:      {"milk", "cheese", "butter", "cream", "yogurt", "egg", "honey"},
	common.DietGlutenFree: {"wheat", "flour", "bread", "pasta"},
	common.DietDairyFree:  {"milk", "cheese", "butter", "cream", "yogurt"},
	common.DietNutFree:    {"peanut", "almond", "cashew", "walnut", "pistachio"},
}

// Score 計算候選食譜的適合度，0 代表不合格。
// 任何內部錯誤都只會讓這個候選得到 0 分。
func Score(
	candidate *common.CandidateRecipe,
	prefs *common.PreferenceProfile,
	restrictions []common.DietaryRestriction,
	available []string,
	user *common.UserContext,
) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
		}
	}()

	if candidate == nil || prefs == nil {
		return 0
	}

	ingredients := lowerAll(candidate.Ingredients)
	tags := lowerAll(candidate.Tags)

	score += cuisineScore(candidate.Cuisine, string(prefs.Cuisine))
	score += mealTypeScore(tags, prefs.MealTypes)
	score += cookingTimeScore(candidate.CookingTime, prefs.MaxCookingTime.Minutes())
	score += ingredientScore(ingredients, lowerAll(available))

	if ViolatesRestrictions(ingredients, restrictions) {
		return 0
	}
	score += WeightDietary

	if user != nil {
		if containsDisliked(ingredients, lowerAll(user.DislikedIngredients)) {
			return 0
		}
		if user.IsSaved(candidate.ID) {
			score += WeightSavedRecipe
		}
	}

	score += spiceScore(ExtractSpiceLevel(candidate), prefs.SpiceLevel)

	if strings.EqualFold(strings.TrimSpace(candidate.Difficulty), "easy") {
		score += WeightEasy
	}

	return score
}

func cuisineScore(recipeCuisine, preferred string) float64 {
	rc := strings.ToLower(recipeCuisine)
	pc := strings.ToLower(preferred)
	switch {
	case rc == pc:
		return WeightCuisine
	case strings.Contains(pc, rc) || strings.Contains(rc, pc):
		return WeightCuisine / 2
	}
	return 0
}

// mealTypeScore 第一個符合的餐別即給分，不會累加
func mealTypeScore(tags []string, mealTypes []common.MealType) float64 {
	for _, mt := range mealTypes {
		want := strings.ToLower(string(mt))
		for _, tag := range tags {
			if strings.Contains(tag, want) {
				return WeightMealType
			}
		}
	}
	return 0
}

func cookingTimeScore(minutes, maxMinutes int) float64 {
	if minutes <= 0 {
		minutes = defaultCookingTime
	}
	switch {
	case minutes <= maxMinutes:
		return WeightCookingTime
	case minutes <= maxMinutes+cookingTimeGrace:
		return WeightCookingTime / 2
	}
	return 0
}

func ingredientScore(ingredients, available []string) float64 {
	if len(ingredients) == 0 {
		return 0
	}
	matched := 0
	for _, ing := range ingredients {
		for _, avail := range available {
			if avail == "" {
				continue
			}
			if strings.Contains(avail, ing) || strings.Contains(ing, avail) {
				matched++
				break
			}
		}
	}
	return WeightIngredients * float64(matched) / float64(len(ingredients))
}

// ViolatesRestrictions 候選食材中是否出現任一限制禁止的食材。
// 比對的是整個食材名稱（小寫），不是子字串。
func ViolatesRestrictions(ingredients []string, restrictions []common.DietaryRestriction) bool {
	if len(restrictions) == 0 {
		return false
	}
	present := make(map[string]struct{}, len(ingredients))
	for _, ing := range ingredients {
		present[strings.ToLower(ing)] = struct{}{}
	}
	for _, r := range restrictions {
		for _, banned := range restrictedIngredients[r] {
			if _, ok := present[banned]; ok {
				return true
			}
		}
	}
	return false
}

func containsDisliked(ingredients, disliked []string) bool {
	for _, ing := range ingredients {
		for _, d := range disliked {
			if d == "" {
				continue
			}
			if strings.Contains(d, ing) || strings.Contains(ing, d) {
				return true
			}
		}
	}
	return false
}

// ExtractSpiceLevel 從標題與標籤推斷辣度，找不到時視為 Medium
func ExtractSpiceLevel(candidate *common.CandidateRecipe) common.SpiceLevel {
	title := strings.ToLower(candidate.Title)
	tags := lowerAll(candidate.Tags)
	for _, level := range []common.SpiceLevel{common.SpiceSpicy, common.SpiceMild, common.SpiceMedium} {
		keyword := strings.ToLower(string(level))
		if strings.Contains(title, keyword) || hasTag(tags, keyword) {
			return level
		}
	}
	return common.SpiceMedium
}

// spiceScore 完全相同給滿分，相鄰一級給一半；未知辣度不加分也不扣分
func spiceScore(recipeLevel, preferred common.SpiceLevel) float64 {
	ri, pi := recipeLevel.Index(), preferred.Index()
	if ri < 0 || pi < 0 {
		return 0
	}
	switch d := ri - pi; {
	case d == 0:
		return WeightSpice
	case d >= -1 && d <= 1:
		return WeightSpice / 2
	}
	return 0
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
