package repositories

import (
	"context"
	"sort"
	"sync"

	"recipe-recommender/internal/pkg/common"
)

// SeedBaseRecipes 記憶體模式預設的基礎食譜
func SeedBaseRecipes() []common.CandidateRecipe {
	return []common.CandidateRecipe{
		{
			ID:          "base-1",
			Title:       "Classic Yippee Masala",
			Cuisine:     "Indian",
			Difficulty:  "Easy",
			CookingTime: 15,
			Tags:        []string{"quick", "vegetarian", "indian"},
			Ingredients: []string{"Yippee noodles", "onions", "tomatoes", "spices"},
			Type:        TypeBaseRecipe,
		},
		{
			ID:          "base-2",
			Title:       "Yippee Stir Fry",
			Cuisine:     "Asian",
			Difficulty:  "Medium",
			CookingTime: 20,
			Tags:        []string{"asian", "quick", "vegetarian"},
			Ingredients: []string{"Yippee noodles", "vegetables", "soy sauce", "ginger"},
			Type:        TypeBaseRecipe,
		},
	}
}

// MemoryBaseRecipeRepository 記憶體基礎食譜，保留插入順序
type MemoryBaseRecipeRepository struct {
	mu      sync.RWMutex
	order   []string
	recipes map[string]common.CandidateRecipe
}

// NewMemoryBaseRecipeRepository 建立記憶體基礎食譜存取
func NewMemoryBaseRecipeRepository(seed ...common.CandidateRecipe) *MemoryBaseRecipeRepository {
	r := &MemoryBaseRecipeRepository{recipes: make(map[string]common.CandidateRecipe)}
	for i := range seed {
		_ = r.Upsert(context.Background(), &seed[i])
	}
	return r
}

func (r *MemoryBaseRecipeRepository) List(ctx context.Context) ([]common.CandidateRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]common.CandidateRecipe, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneCandidate(r.recipes[id]))
	}
	return out, nil
}

func (r *MemoryBaseRecipeRepository) Get(ctx context.Context, id string) (*common.CandidateRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, nil
	}
	recipe = cloneCandidate(recipe)
	return &recipe, nil
}

func (r *MemoryBaseRecipeRepository) Upsert(ctx context.Context, recipe *common.CandidateRecipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipe.Type = TypeBaseRecipe
	if _, exists := r.recipes[recipe.ID]; !exists {
		r.order = append(r.order, recipe.ID)
	}
	r.recipes[recipe.ID] = cloneCandidate(*recipe)
	return nil
}

// MemoryGeneratedRecipeRepository 記憶體生成食譜
type MemoryGeneratedRecipeRepository struct {
	mu      sync.RWMutex
	recipes map[string]common.GeneratedRecipe
}

// NewMemoryGeneratedRecipeRepository 建立記憶體生成食譜存取
func NewMemoryGeneratedRecipeRepository() *MemoryGeneratedRecipeRepository {
	return &MemoryGeneratedRecipeRepository{recipes: make(map[string]common.GeneratedRecipe)}
}

func (r *MemoryGeneratedRecipeRepository) Save(ctx context.Context, recipe *common.GeneratedRecipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipe.Type = TypeGeneratedRecipe
	r.recipes[recipe.ID] = cloneGenerated(*recipe)
	return nil
}

func (r *MemoryGeneratedRecipeRepository) Get(ctx context.Context, id string) (*common.GeneratedRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, nil
	}
	recipe = cloneGenerated(recipe)
	return &recipe, nil
}

func (r *MemoryGeneratedRecipeRepository) ListByUser(ctx context.Context, userID string, limit int) ([]common.GeneratedRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []common.GeneratedRecipe{}
	for _, recipe := range r.recipes {
		if recipe.UserID == userID {
			out = append(out, cloneGenerated(recipe))
		}
	}
	// RFC3339 UTC 時間字串可直接比較
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryProfileRepository 記憶體使用者檔案
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]common.UserProfile
}

// NewMemoryProfileRepository 建立記憶體使用者檔案存取
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]common.UserProfile)}
}

func (r *MemoryProfileRepository) Get(ctx context.Context, userID string) (*common.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	profile = cloneProfile(profile)
	return &profile, nil
}

func (r *MemoryProfileRepository) Upsert(ctx context.Context, profile *common.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = cloneProfile(*profile)
	return nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneCandidate(c common.CandidateRecipe) common.CandidateRecipe {
	c.Tags = cloneStrings(c.Tags)
	c.Ingredients = cloneStrings(c.Ingredients)
	return c
}

func cloneGenerated(g common.GeneratedRecipe) common.GeneratedRecipe {
	g.Tags = cloneStrings(g.Tags)
	g.Ingredients = append([]common.RecipeIngredient(nil), g.Ingredients...)
	g.Instructions = append([]common.RecipeInstruction(nil), g.Instructions...)
	return g
}

func cloneProfile(p common.UserProfile) common.UserProfile {
	p.SavedRecipes = cloneStrings(p.SavedRecipes)
	p.DislikedIngredients = cloneStrings(p.DislikedIngredients)
	p.CookingHistory = cloneStrings(p.CookingHistory)
	if p.Preferences != nil {
		prefs := *p.Preferences
		prefs.MealTypes = append([]common.MealType(nil), prefs.MealTypes...)
		prefs.DietaryRestrictions = append([]common.DietaryRestriction(nil), prefs.DietaryRestrictions...)
		prefs.AvailableIngredients = cloneStrings(prefs.AvailableIngredients)
		p.Preferences = &prefs
	}
	return p
}
