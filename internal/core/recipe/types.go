package recipe

import (
	"recipe-recommender/internal/pkg/common"
)

// 使用者食譜列表筆數
const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

// RecommendationRequest 僅排序、不生成的推薦請求
type RecommendationRequest struct {
	Preferences *common.PreferenceProfile `json:"preferences" binding:"required"`
	UserID      string                    `json:"user_id,omitempty"`
}

// RecommendationResponse 推薦結果
type RecommendationResponse struct {
	Recommendations []common.GeneratedRecipe `json:"recommendations"`
	Count           int                      `json:"count"`
}

// ParseRequest 解析原始食譜文字
type ParseRequest struct {
	Text    string         `json:"text" binding:"required"`
	Cuisine common.Cuisine `json:"cuisine,omitempty"`
}

// UserRecipesResponse 使用者生成過的食譜
type UserRecipesResponse struct {
	UserID  string                   `json:"user_id"`
	Recipes []common.GeneratedRecipe `json:"recipes"`
	Count   int                      `json:"count"`
}

// clampLimit 套用預設與上限
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
