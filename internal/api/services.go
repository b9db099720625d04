package api

import (
	"context"
	"fmt"

	"recipe-recommender/internal/api/handlers/health"
	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/imagegen"
	"recipe-recommender/internal/core/ai/nlp"
	"recipe-recommender/internal/core/ai/openrouter"
	"recipe-recommender/internal/core/ai/service"
	"recipe-recommender/internal/core/profile"
	recipeService "recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommendation"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/infrastructure/database"
	"recipe-recommender/internal/infrastructure/repositories"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Stores 資料存取層
type Stores struct {
	BaseRecipes repositories.BaseRecipeRepository
	Generated   repositories.GeneratedRecipeRepository
	Profiles    repositories.ProfileRepository
	// Checks 就緒檢查用的依賴
	Checks map[string]health.Check

	closers []func(ctx context.Context) error
}

// Close 關閉資料庫與緩存連線
func (s *Stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			common.LogWarn("Failed to close store", zap.Error(err))
		}
	}
}

// OpenStores 依設定連線 MongoDB，未設定時使用記憶體儲存
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{Checks: map[string]health.Check{}}

	if cfg.UseMemoryStore() {
		common.LogWarn("MongoDB URI not set, using in-memory stores with seed recipes")
		s.BaseRecipes = repositories.NewMemoryBaseRecipeRepository(repositories.SeedBaseRecipes()...)
		s.Generated = repositories.NewMemoryGeneratedRecipeRepository()
		s.Profiles = repositories.NewMemoryProfileRepository()
		return s, nil
	}

	db := database.NewMongoDB(cfg.MongoDB)
	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.ConnectTimeout)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return nil, err
	}

	s.BaseRecipes = repositories.NewBaseRecipeRepository(db)
	s.Generated = repositories.NewGeneratedRecipeRepository(db)
	s.Profiles = repositories.NewProfileRepository(db)
	s.Checks["mongodb"] = db.Health
	s.closers = append(s.closers, db.Close)
	return s, nil
}

// Services 路由使用的服務
type Services struct {
	Recipes  *recipeService.RecipeService
	Profiles *profile.Service
	AI       *service.Service
	Stores   *Stores
}

// Close 依建立的相反順序釋放資源
func (s *Services) Close(ctx context.Context) {
	if err := s.AI.Close(); err != nil {
		common.LogWarn("Failed to close AI service", zap.Error(err))
	}
	s.Stores.Close(ctx)
}

// NewServices 建立外部服務客戶端與領域服務
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisStore, err := cache.NewRedisStore(ctx, cfg.Redis, "profile")
	if err != nil {
		stores.Close(ctx)
		return nil, fmt.Errorf("failed to initialize profile cache: %w", err)
	}
	var profileCache profile.Cache
	if redisStore != nil {
		profileCache = redisStore
		stores.Checks["redis"] = redisStore.Ping
		stores.closers = append(stores.closers, func(context.Context) error { return redisStore.Close() })
	}

	profiles := profile.NewService(stores.Profiles, profileCache, cfg.Redis.ProfileTTL)

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Bool("mock_ai", cfg.UseMockAI()),
		zap.Bool("memory_store", cfg.UseMemoryStore()),
		zap.Bool("profile_cache", redisStore != nil),
	)

	aiService := service.NewService(openrouter.NewClient(cfg), cache.NewManager(cfg.Cache), cfg.Queue)

	recipes := recipeService.NewRecipeService(recipeService.Dependencies{
		Text:        aiService,
		Images:      imagegen.NewClient(cfg),
		Analyzer:    nlp.NewClient(cfg),
		BaseRecipes: stores.BaseRecipes,
		Generated:   stores.Generated,
		Profiles:    profiles,
		Ranker:      recommendation.NewRanker(recommendation.WithTopN(cfg.Recommendation.TopN)),
	})

	return &Services{
		Recipes:  recipes,
		Profiles: profiles,
		AI:       aiService,
		Stores:   stores,
	}, nil
}
