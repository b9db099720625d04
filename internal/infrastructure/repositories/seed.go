package repositories

import (
	"context"
	"fmt"
	"io"

	"recipe-recommender/internal/pkg/common"
)

// ImportBaseRecipes 從 JSON 陣列匯入基礎食譜，回傳寫入筆數
func ImportBaseRecipes(ctx context.Context, repo BaseRecipeRepository, r io.Reader) (int, error) {
	var recipes []common.CandidateRecipe
	if err := common.DecodeJSONStrict(r, &recipes); err != nil {
		return 0, fmt.Errorf("failed to decode recipes: %w", err)
	}

	for i := range recipes {
		if recipes[i].ID == "" {
			return i, fmt.Errorf("recipe #%d (%q) has no id", i+1, recipes[i].Title)
		}
	}

	for i := range recipes {
		if err := repo.Upsert(ctx, &recipes[i]); err != nil {
			return i, fmt.Errorf("failed to upsert recipe %s: %w", recipes[i].ID, err)
		}
	}
	return len(recipes), nil
}
