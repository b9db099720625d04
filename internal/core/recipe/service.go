package recipe

import (
	"context"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/core/profile"
	"recipe-recommender/internal/core/recommendation"
	"recipe-recommender/internal/infrastructure/repositories"
	"recipe-recommender/internal/pkg/common"
)

// TextService 文字生成（*service.Service：緩存 + 隊列）
type TextService interface {
	GenerateText(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ProfileStore 使用者檔案（*profile.Service）
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*common.UserProfile, error)
	Update(ctx context.Context, userID string, patch profile.Patch) (*common.UserProfile, error)
	AddToHistory(ctx context.Context, userID, recipeID string) (*common.UserProfile, error)
}

// Dependencies 食譜服務的外部協作者
type Dependencies struct {
	Text        TextService
	Images      provider.ImageGenerator
	Analyzer    provider.TextAnalyzer
	BaseRecipes repositories.BaseRecipeRepository
	Generated   repositories.GeneratedRecipeRepository
	Profiles    ProfileStore
	Ranker      *recommendation.Ranker
}

// withDefaults 補上未提供的選用協作者
func (d Dependencies) withDefaults() Dependencies {
	if d.Ranker == nil {
		d.Ranker = recommendation.NewRanker()
	}
	return d
}
