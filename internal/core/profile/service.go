package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"recipe-recommender/internal/infrastructure/repositories"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultCacheTTL 使用者檔案緩存時間
const DefaultCacheTTL = time.Hour

// Cache 使用者檔案緩存（*cache.RedisStore）
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Patch 更新內容，nil 欄位保持不變
type Patch struct {
	Preferences         *common.PreferenceProfile `json:"preferences,omitempty"`
	SavedRecipes        []string                  `json:"saved_recipes,omitempty"`
	DislikedIngredients []string                  `json:"disliked_ingredients,omitempty"`
	CookingHistory      []string                  `json:"cooking_history,omitempty"`
}

// Service 使用者檔案服務
type Service struct {
	repo  repositories.ProfileRepository
	cache Cache
	ttl   time.Duration
	mu    sync.Mutex
	now   func() time.Time
}

// NewService 創建使用者檔案服務，cache 可為 nil
func NewService(repo repositories.ProfileRepository, cache Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

func cacheKey(userID string) string {
	return "user_profile:" + userID
}

// Get 先查緩存再查資料庫，不存在時回傳 nil, nil
func (s *Service) Get(ctx context.Context, userID string) (*common.UserProfile, error) {
	if userID == "" {
		return nil, common.NewValidationError("user id is required")
	}

	if s.cache != nil {
		var cached common.UserProfile
		err := s.cache.Get(ctx, cacheKey(userID), &cached)
		switch {
		case err == nil:
			common.LogDebug("User profile served from cache", zap.String("user_id", userID))
			return &cached, nil
		case !errors.Is(err, common.ErrCacheMiss) && !errors.Is(err, common.ErrCacheDisabled):
			common.LogWarn("Profile cache lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}

	s.writeCache(ctx, profile)
	return profile, nil
}

// Update 合併非 nil 欄位後寫回資料庫並更新緩存
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*common.UserProfile, error) {
	return s.mutate(ctx, userID, func(p *common.UserProfile) bool {
		if patch.Preferences != nil {
			prefs := *patch.Preferences
			p.Preferences = &prefs
		}
		if patch.SavedRecipes != nil {
			p.SavedRecipes = append([]string(nil), patch.SavedRecipes...)
		}
		if patch.DislikedIngredients != nil {
			p.DislikedIngredients = append([]string(nil), patch.DislikedIngredients...)
		}
		if patch.CookingHistory != nil {
			p.CookingHistory = common.NormalizeHistory(patch.CookingHistory)
		}
		return true
	})
}

// AddToHistory 將食譜加到烹飪歷史最前面
func (s *Service) AddToHistory(ctx context.Context, userID, recipeID string) (*common.UserProfile, error) {
	return s.mutate(ctx, userID, func(p *common.UserProfile) bool {
		var added bool
		p.CookingHistory, added = common.PushHistory(p.CookingHistory, recipeID)
		return added
	})
}

// SaveRecipe 收藏食譜
func (s *Service) SaveRecipe(ctx context.Context, userID, recipeID string) (*common.UserProfile, error) {
	if recipeID == "" {
		return nil, common.NewValidationError("recipe_id is required")
	}
	return s.mutate(ctx, userID, func(p *common.UserProfile) bool {
		for _, id := range p.SavedRecipes {
			if id == recipeID {
				return false
			}
		}
		p.SavedRecipes = append(p.SavedRecipes, recipeID)
		return true
	})
}

// AddDislikedIngredient 加入不喜歡的食材（不分大小寫去重）
func (s *Service) AddDislikedIngredient(ctx context.Context, userID, ingredient string) (*common.UserProfile, error) {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return nil, common.NewValidationError("ingredient is required")
	}
	return s.mutate(ctx, userID, func(p *common.UserProfile) bool {
		for _, existing := range p.DislikedIngredients {
			if strings.EqualFold(existing, ingredient) {
				return false
			}
		}
		p.DislikedIngredients = append(p.DislikedIngredients, ingredient)
		return true
	})
}

// ClearCache 清除使用者檔案緩存
func (s *Service) ClearCache(ctx context.Context, userID string) error {
	if s.cache == nil {
		return common.ErrCacheDisabled
	}
	if err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
		return fmt.Errorf("failed to clear profile cache: %w", err)
	}
	common.LogInfo("Cleared user profile cache", zap.String("user_id", userID))
	return nil
}

// mutate 讀取（或建立）檔案、套用變更並寫回
func (s *Service) mutate(ctx context.Context, userID string, apply func(p *common.UserProfile) bool) (*common.UserProfile, error) {
	if userID == "" {
		return nil, common.NewValidationError("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 直接讀資料庫，避免以過期緩存覆寫
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	now := s.now().UTC().Format(time.RFC3339)
	created := profile == nil
	if created {
		profile = &common.UserProfile{
			UserID:              userID,
			SavedRecipes:        []string{},
			DislikedIngredients: []string{},
			CookingHistory:      []string{},
			CreatedAt:           now,
		}
	}

	if !apply(profile) && !created {
		return profile, nil
	}
	profile.UpdatedAt = now

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save user profile: %w", err)
	}
	s.writeCache(ctx, profile)

	common.LogDebug("User profile updated", zap.String("user_id", userID), zap.Bool("created", created))
	return profile, nil
}

func (s *Service) writeCache(ctx context.Context, profile *common.UserProfile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(profile.UserID), profile, s.ttl); err != nil {
		common.LogWarn("Failed to cache user profile", zap.String("user_id", profile.UserID), zap.Error(err))
	}
}
