package repositories

import (
	"context"

	"recipe-recommender/internal/pkg/common"
)

// 文件類型標記
const (
	TypeBaseRecipe      = "base_recipe"
	TypeGeneratedRecipe = "generated_recipe"
)

// BaseRecipeRepository 基礎食譜（推薦候選）存取
type BaseRecipeRepository interface {
	List(ctx context.Context) ([]common.CandidateRecipe, error)
	Get(ctx context.Context, id string) (*common.CandidateRecipe, error)
	Upsert(ctx context.Context, recipe *common.CandidateRecipe) error
}

// GeneratedRecipeRepository 生成食譜存取
type GeneratedRecipeRepository interface {
	Save(ctx context.Context, recipe *common.GeneratedRecipe) error
	Get(ctx context.Context, id string) (*common.GeneratedRecipe, error)
	// ListByUser 依建立時間由新到舊
	ListByUser(ctx context.Context, userID string, limit int) ([]common.GeneratedRecipe, error)
}

// ProfileRepository 使用者檔案存取，不存在時回傳 nil, nil
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*common.UserProfile, error)
	Upsert(ctx context.Context, profile *common.UserProfile) error
}
