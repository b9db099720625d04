package common

import (
	"fmt"
	"strings"
)

// HistoryLimit 烹飪歷史最多保留筆數
const HistoryLimit = 50

// PreferenceProfile 使用者偏好
type PreferenceProfile struct {
	Cuisine              Cuisine              `json:"cuisine" bson:"cuisine"`
	SpiceLevel           SpiceLevel           `json:"spice_level" bson:"spice_level"`
	MealTypes            []MealType           `json:"meal_type" bson:"meal_type"`
	MaxCookingTime       CookingTime          `json:"max_cooking_time" bson:"max_cooking_time"`
	DietaryRestrictions  []DietaryRestriction `json:"dietary_restrictions" bson:"dietary_restrictions"`
	AvailableIngredients []string             `json:"available_ingredients" bson:"available_ingredients"`
}

// Validate 檢查必要欄位
func (p *PreferenceProfile) Validate() error {
	if p == nil {
		return NewValidationError("preferences are required")
	}
	if p.Cuisine == "" {
		return NewValidationError("cuisine is required")
	}
	if p.SpiceLevel == "" {
		return NewValidationError("spice_level is required")
	}
	if len(p.MealTypes) == 0 {
		return NewValidationError("meal_type requires at least one value")
	}
	if p.MaxCookingTime == "" {
		return NewValidationError("max_cooking_time is required")
	}
	return nil
}

// UserContext 評分時使用的使用者狀態
type UserContext struct {
	SavedRecipes        map[string]struct{}
	DislikedIngredients []string
	CookingHistory      []string
}

// NewUserContext 建立使用者狀態，歷史紀錄會去重並截斷
func NewUserContext(saved, disliked, history []string) *UserContext {
	uc := &UserContext{
		SavedRecipes:        make(map[string]struct{}, len(saved)),
		DislikedIngredients: append([]string(nil), disliked...),
	}
	for _, id := range saved {
		uc.SavedRecipes[id] = struct{}{}
	}
	uc.CookingHistory = NormalizeHistory(history)
	return uc
}

// NormalizeHistory 去除空值與重複（保留第一次出現），最多 HistoryLimit 筆
func NormalizeHistory(history []string) []string {
	out := make([]string, 0, min(len(history), HistoryLimit))
	seen := make(map[string]struct{}, len(history))
	for _, id := range history {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == HistoryLimit {
			break
		}
	}
	return out
}

// IsSaved 是否為已收藏的食譜
func (u *UserContext) IsSaved(recipeID string) bool {
	if u == nil {
		return false
	}
	_, ok := u.SavedRecipes[recipeID]
	return ok
}

// PushHistory 以最新在前的方式加入歷史，去重並限制在 HistoryLimit 筆
func PushHistory(history []string, recipeID string) ([]string, bool) {
	if recipeID == "" {
		return history, false
	}
	for _, id := range history {
		if id == recipeID {
			return history, false
		}
	}
	next := make([]string, 0, len(history)+1)
	next = append(next, recipeID)
	next = append(next, history...)
	if len(next) > HistoryLimit {
		next = next[:HistoryLimit]
	}
	return next, true
}

// CandidateRecipe 基礎食譜（推薦候選）
type CandidateRecipe struct {
	ID          string   `json:"id" bson:"_id"`
	Title       string   `json:"title" bson:"title"`
	Cuisine     string   `json:"cuisine" bson:"cuisine"`
	CookingTime int      `json:"cooking_time" bson:"cooking_time"`
	Difficulty  string   `json:"difficulty" bson:"difficulty"`
	Tags        []string `json:"tags" bson:"tags"`
	Ingredients []string `json:"ingredients" bson:"ingredients"`
	Type        string   `json:"type,omitempty" bson:"type"`
}

// RecipeIngredient 食材
type RecipeIngredient struct {
	Name     string  `json:"name" bson:"name"`
	Quantity string  `json:"quantity" bson:"quantity"`
	Notes    *string `json:"notes" bson:"notes,omitempty"`
}

// RecipeInstruction 烹飪步驟
type RecipeInstruction struct {
	StepNumber  int    `json:"step_number" bson:"step_number"`
	Instruction string `json:"instruction" bson:"instruction"`
	TimeMinutes *int   `json:"time_minutes" bson:"time_minutes,omitempty"`
}

// ParsedRecipe 由模型文字解析出的食譜
type ParsedRecipe struct {
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	CookingTime  int                 `json:"cooking_time"`
	Difficulty   string              `json:"difficulty"`
	Tags         []string            `json:"tags"`
	Ingredients  []RecipeIngredient  `json:"ingredients"`
	Instructions []RecipeInstruction `json:"instructions"`
}

// GeneratedRecipe 回應用的食譜格式（生成與推薦共用）
type GeneratedRecipe struct {
	ID            string                 `json:"id" bson:"_id"`
	Title         string                 `json:"title" bson:"title"`
	Description   string                 `json:"description,omitempty" bson:"description,omitempty"`
	Ingredients   []RecipeIngredient     `json:"ingredients" bson:"ingredients"`
	Instructions  []RecipeInstruction    `json:"instructions" bson:"instructions"`
	CookingTime   int                    `json:"cooking_time" bson:"cooking_time"`
	Difficulty    string                 `json:"difficulty" bson:"difficulty"`
	Cuisine       string                 `json:"cuisine" bson:"cuisine"`
	SpiceLevel    string                 `json:"spice_level" bson:"spice_level"`
	ImageURL      string                 `json:"image_url,omitempty" bson:"image_url,omitempty"`
	NutritionInfo map[string]interface{} `json:"nutrition_info,omitempty" bson:"nutrition_info,omitempty"`
	Tags          []string               `json:"tags" bson:"tags"`
	CreatedAt     string                 `json:"created_at" bson:"created_at"`
	UserID        string                 `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Type          string                 `json:"-" bson:"type"`
}

// UserProfile 使用者檔案
type UserProfile struct {
	UserID              string             `json:"user_id" bson:"_id"`
	Preferences         *PreferenceProfile `json:"preferences,omitempty" bson:"preferences,omitempty"`
	SavedRecipes        []string           `json:"saved_recipes" bson:"saved_recipes"`
	DislikedIngredients []string           `json:"disliked_ingredients" bson:"disliked_ingredients"`
	CookingHistory      []string           `json:"cooking_history" bson:"cooking_history"`
	CreatedAt           string             `json:"created_at" bson:"created_at"`
	UpdatedAt           string             `json:"updated_at" bson:"updated_at"`
}

// Context 轉換為評分用的使用者狀態
func (p *UserProfile) Context() *UserContext {
	if p == nil {
		return nil
	}
	return NewUserContext(p.SavedRecipes, p.DislikedIngredients, p.CookingHistory)
}

// Summary 給提示詞使用的簡短描述
func (p *UserProfile) Summary() string {
	if p == nil {
		return "New user"
	}
	return fmt.Sprintf("saved recipes: %d; disliked ingredients: %s; recently cooked: %d",
		len(p.SavedRecipes), StringSliceToString(p.DislikedIngredients), len(p.CookingHistory))
}

// NLPEntity 辨識出的實體
type NLPEntity struct {
	Text            string  `json:"text"`
	Category        string  `json:"category"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// NLPInsights 文字分析結果
type NLPInsights struct {
	Entities   []NLPEntity `json:"entities"`
	KeyPhrases []string    `json:"key_phrases"`
	Sentiment  string      `json:"sentiment"`
}

// NeutralInsights 分析失敗時的預設結果
func NeutralInsights() *NLPInsights {
	return &NLPInsights{
		Entities:   []NLPEntity{},
		KeyPhrases: []string{},
		Sentiment:  "neutral",
	}
}

// GenerationRequest 食譜生成請求
type GenerationRequest struct {
	Preferences *PreferenceProfile `json:"preferences" binding:"required"`
	UserID      string             `json:"user_id,omitempty"`
}

// GenerationResponse 食譜生成回應
type GenerationResponse struct {
	Recipe          *GeneratedRecipe  `json:"recipe"`
	Recommendations []GeneratedRecipe `json:"recommendations"`
	NLPInsights     *NLPInsights      `json:"nlp_insights,omitempty"`
}

// DescribePreferences 將偏好轉為 NLP 分析用的文字
func DescribePreferences(p *PreferenceProfile) string {
	mealTypes := make([]string, len(p.MealTypes))
	for i, mt := range p.MealTypes {
		mealTypes[i] = string(mt)
	}
	restrictions := make([]string, len(p.DietaryRestrictions))
	for i, dr := range p.DietaryRestrictions {
		restrictions[i] = string(dr)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cuisine: %s\n", p.Cuisine)
	fmt.Fprintf(&sb, "Spice Level: %s\n", p.SpiceLevel)
	fmt.Fprintf(&sb, "Meal Types: %s\n", strings.Join(mealTypes, ", "))
	fmt.Fprintf(&sb, "Cooking Time: %s\n", p.MaxCookingTime)
	fmt.Fprintf(&sb, "Dietary Restrictions: %s\n", strings.Join(restrictions, ", "))
	fmt.Fprintf(&sb, "Available Ingredients: %s\n", strings.Join(p.AvailableIngredients, ", "))
	return sb.String()
}
