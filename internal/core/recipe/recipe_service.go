package recipe

import (
	"context"
	"fmt"
	"time"

	"recipe-recommender/internal/core/ai/imagegen"
	"recipe-recommender/internal/core/profile"
	"recipe-recommender/internal/core/recommendation"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"go.uber.org/zap"
)

// RecipeService 食譜生成與推薦服務
// --------------------------------------------------
type RecipeService struct {
	deps Dependencies
	now  func() time.Time
	// newID 產生食譜識別碼
	newID func() string
}

// NewRecipeService 創建新的食譜服務
func NewRecipeService(deps Dependencies) *RecipeService {
	return &RecipeService{
		deps:  deps.withDefaults(),
		now:   time.Now,
		newID: common.GenerateUUID,
	}
}

// Generate 依偏好產生新食譜，並附上基礎食譜推薦與 NLP 分析
func (s *RecipeService) Generate(ctx context.Context, req *common.GenerationRequest) (*common.GenerationResponse, error) {
	if req == nil {
		return nil, common.NewValidationError("request body is required")
	}
	if err := req.Preferences.Validate(); err != nil {
		return nil, err
	}
	prefs := req.Preferences
	start := time.Now()

	common.LogInfo("Generating recipe",
		zap.String("cuisine", string(prefs.Cuisine)),
		zap.String("spice_level", string(prefs.SpiceLevel)),
		zap.String("user_id", req.UserID),
	)

	userProfile := s.loadProfile(ctx, req.UserID)
	insights := s.analyze(ctx, prefs)
	recommendations := s.recommend(ctx, prefs, userProfile)

	prompt := BuildPrompt(prefs, insights, userProfile)
	text, outcome := s.generateText(ctx, prompt)
	parsed := ParseWithCuisine(text, prefs.Cuisine)
	imageURL := s.generateImage(ctx, parsed.Title)

	recipe := &common.GeneratedRecipe{
		ID:           s.newID(),
		Title:        parsed.Title,
		Description:  parsed.Description,
		Ingredients:  parsed.Ingredients,
		Instructions: parsed.Instructions,
		CookingTime:  parsed.CookingTime,
		Difficulty:   parsed.Difficulty,
		Cuisine:      string(prefs.Cuisine),
		SpiceLevel:   string(prefs.SpiceLevel),
		ImageURL:     imageURL,
		Tags:         parsed.Tags,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
		UserID:       req.UserID,
	}

	if err := s.deps.Generated.Save(ctx, recipe); err != nil {
		metrics.GenerationsTotal.WithLabelValues("failed").Inc()
		common.LogError("Failed to store generated recipe", zap.String("recipe_id", recipe.ID), zap.Error(err))
		return nil, common.ErrGenerationFailed.Wrap(fmt.Errorf("store recipe: %w", err))
	}
	metrics.GenerationsTotal.WithLabelValues(outcome).Inc()

	if req.UserID != "" {
		s.recordForUser(ctx, req.UserID, recipe.ID, prefs)
	}

	common.LogInfo("Recipe generated",
		zap.String("recipe_id", recipe.ID),
		zap.String("title", recipe.Title),
		zap.String("outcome", outcome),
		zap.Int("recommendations", len(recommendations)),
		zap.Duration("duration", time.Since(start)),
	)

	return &common.GenerationResponse{
		Recipe:          recipe,
		Recommendations: recommendations,
		NLPInsights:     insights,
	}, nil
}

// Recommend 只做基礎食譜排序，不呼叫生成模型
func (s *RecipeService) Recommend(ctx context.Context, req *RecommendationRequest) (*RecommendationResponse, error) {
	if req == nil {
		return nil, common.NewValidationError("request body is required")
	}
	if err := req.Preferences.Validate(); err != nil {
		return nil, err
	}

	userProfile := s.loadProfile(ctx, req.UserID)
	recs := s.recommend(ctx, req.Preferences, userProfile)
	return &RecommendationResponse{Recommendations: recs, Count: len(recs)}, nil
}

// GetRecipe 先找生成食譜，再找基礎食譜
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*common.GeneratedRecipe, error) {
	if id == "" {
		return nil, common.NewValidationError("recipe id is required")
	}

	generated, err := s.deps.Generated.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if generated != nil {
		return generated, nil
	}

	base, err := s.deps.BaseRecipes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if base == nil {
		return nil, common.ErrRecipeNotFound
	}

	recipe, err := recommendation.ToRecipe(base)
	if err != nil {
		return nil, fmt.Errorf("failed to convert recipe: %w", err)
	}
	return &recipe, nil
}

// ListUserRecipes 使用者生成過的食譜，由新到舊
func (s *RecipeService) ListUserRecipes(ctx context.Context, userID string, limit int) (*UserRecipesResponse, error) {
	if userID == "" {
		return nil, common.NewValidationError("user id is required")
	}

	recipes, err := s.deps.Generated.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list user recipes: %w", err)
	}
	if recipes == nil {
		recipes = []common.GeneratedRecipe{}
	}
	return &UserRecipesResponse{UserID: userID, Recipes: recipes, Count: len(recipes)}, nil
}

// loadProfile 讀取失敗時視為沒有檔案
func (s *RecipeService) loadProfile(ctx context.Context, userID string) *common.UserProfile {
	if userID == "" || s.deps.Profiles == nil {
		return nil
	}
	p, err := s.deps.Profiles.Get(ctx, userID)
	if err != nil {
		common.LogWarn("Failed to load user profile", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return p
}

// analyze 失敗時回傳中性結果
func (s *RecipeService) analyze(ctx context.Context, prefs *common.PreferenceProfile) *common.NLPInsights {
	if s.deps.Analyzer == nil {
		return common.NeutralInsights()
	}
	insights, err := s.deps.Analyzer.Analyze(ctx, common.DescribePreferences(prefs))
	if err != nil || insights == nil {
		common.LogWarn("Text analysis failed, using neutral insights", zap.Error(err))
		return common.NeutralInsights()
	}
	return insights
}

func (s *RecipeService) recommend(ctx context.Context, prefs *common.PreferenceProfile, userProfile *common.UserProfile) []common.GeneratedRecipe {
	candidates, err := s.deps.BaseRecipes.List(ctx)
	if err != nil {
		common.LogWarn("Failed to load base recipes", zap.Error(err))
		candidates = nil
	}

	recs := s.deps.Ranker.Rank(candidates, prefs, prefs.DietaryRestrictions, prefs.AvailableIngredients, userProfile.Context())
	metrics.RecommendationsReturned.Observe(float64(len(recs)))
	return recs
}

// generateText 失敗時使用備用食譜，回傳結果類型
func (s *RecipeService) generateText(ctx context.Context, prompt string) (string, string) {
	start := time.Now()
	text, err := s.deps.Text.GenerateText(ctx, SystemPrompt, prompt)
	common.LogAICall("recipe_generation", time.Since(start), err)
	if err != nil {
		common.LogWarn("Recipe generation failed, using fallback recipe", zap.Error(err))
		return FallbackRecipeText, "fallback"
	}
	return text, "generated"
}

func (s *RecipeService) generateImage(ctx context.Context, title string) string {
	if s.deps.Images == nil {
		return imagegen.FallbackImageURL
	}
	url, err := s.deps.Images.GenerateImage(ctx, ImagePrompt(title))
	if err != nil || url == "" {
		common.LogWarn("Image generation failed, using placeholder", zap.Error(err))
		return imagegen.FallbackImageURL
	}
	return url
}

// recordForUser 更新烹飪歷史與偏好，失敗只記錄
func (s *RecipeService) recordForUser(ctx context.Context, userID, recipeID string, prefs *common.PreferenceProfile) {
	if s.deps.Profiles == nil {
		return
	}
	if _, err := s.deps.Profiles.AddToHistory(ctx, userID, recipeID); err != nil {
		common.LogWarn("Failed to update cooking history", zap.String("user_id", userID), zap.Error(err))
	}
	if _, err := s.deps.Profiles.Update(ctx, userID, profile.Patch{Preferences: prefs}); err != nil {
		common.LogWarn("Failed to persist preferences", zap.String("user_id", userID), zap.Error(err))
	}
}
