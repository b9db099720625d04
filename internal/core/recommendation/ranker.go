package recommendation

import (
	"fmt"
	"sort"

	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultTopN 預設且最多的推薦數量
const DefaultTopN = 5

// ScoredCandidate 已評分的候選食譜
type ScoredCandidate struct {
	Candidate *common.CandidateRecipe
	Score     float64
}

// Converter 將候選食譜轉換為回應格式
type Converter func(candidate *common.CandidateRecipe) (common.GeneratedRecipe, error)

// Ranker 推薦排序器
type Ranker struct {
	topN    int
	convert Converter
}

// Option Ranker 選項
type Option func(*Ranker)

// WithTopN 設定推薦數量，超過 DefaultTopN 時以 DefaultTopN 為準
func WithTopN(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.topN = min(n, DefaultTopN)
		}
	}
}

// WithConverter 設定轉換函式
func WithConverter(fn Converter) Option {
	return func(r *Ranker) {
		if fn != nil {
			r.convert = fn
		}
	}
}

// NewRanker 創建推薦排序器
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		topN:    DefaultTopN,
		convert: ToRecipe,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank 使用預設設定排序並轉換候選食譜
func Rank(
	candidates []common.CandidateRecipe,
	prefs *common.PreferenceProfile,
	restrictions []common.DietaryRestriction,
	available []string,
	user *common.UserContext,
) []common.GeneratedRecipe {
	return NewRanker().Rank(candidates, prefs, restrictions, available, user)
}

// TopN 評分、過濾不合格者並依分數排序（同分保持原順序），取前 N 筆
func (r *Ranker) TopN(
	candidates []common.CandidateRecipe,
	prefs *common.PreferenceProfile,
	restrictions []common.DietaryRestriction,
	available []string,
	user *common.UserContext,
) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		s := Score(&candidates[i], prefs, restrictions, available, user)
		if s > 0 {
			scored = append(scored, ScoredCandidate{Candidate: &candidates[i], Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.topN {
		scored = scored[:r.topN]
	}
	return scored
}

// Rank 排序後轉換為回應格式，轉換失敗的候選會被略過
func (r *Ranker) Rank(
	candidates []common.CandidateRecipe,
	prefs *common.PreferenceProfile,
	restrictions []common.DietaryRestriction,
	available []string,
	user *common.UserContext,
) []common.GeneratedRecipe {
	top := r.TopN(candidates, prefs, restrictions, available, user)

	recipes := make([]common.GeneratedRecipe, 0, len(top))
	for _, sc := range top {
		recipe, err := r.safeConvert(sc.Candidate)
		if err != nil {
			common.LogWarn("Skipping recommendation that failed conversion",
				zap.String("recipe_id", sc.Candidate.ID),
				zap.Float64("score", sc.Score),
				zap.Error(err),
			)
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes
}

func (r *Ranker) safeConvert(candidate *common.CandidateRecipe) (recipe common.GeneratedRecipe, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("conversion panic: %v", p)
		}
	}()
	return r.convert(candidate)
}

// ToRecipe 將基礎食譜轉換為簡化的回應食譜，缺少的欄位以預設值補上
func ToRecipe(candidate *common.CandidateRecipe) (common.GeneratedRecipe, error) {
	if candidate == nil {
		return common.GeneratedRecipe{}, fmt.Errorf("nil candidate recipe")
	}

	title := orDefault(candidate.Title, "Yippee Recipe")
	cookingTime := candidate.CookingTime
	if cookingTime <= 0 {
		cookingTime = defaultCookingTime
	}

	ingredients := make([]common.RecipeIngredient, 0, len(candidate.Ingredients))
	for _, name := range candidate.Ingredients {
		ingredients = append(ingredients, common.RecipeIngredient{
			Name:     name,
			Quantity: "as needed",
		})
	}

	tags := candidate.Tags
	if tags == nil {
		tags = []string{}
	}

	return common.GeneratedRecipe{
		ID:          candidate.ID,
		Title:       title,
		Description: fmt.Sprintf("A delicious %s recipe", orDefault(candidate.Cuisine, "fusion")),
		Ingredients: ingredients,
		Instructions: []common.RecipeInstruction{
			{
				StepNumber:  1,
				Instruction: fmt.Sprintf("Prepare %s according to your preference", title),
				TimeMinutes: &cookingTime,
			},
		},
		CookingTime: cookingTime,
		Difficulty:  orDefault(candidate.Difficulty, "Medium"),
		Cuisine:     orDefault(candidate.Cuisine, "Fusion"),
		SpiceLevel:  string(common.SpiceMedium),
		Tags:        tags,
	}, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
