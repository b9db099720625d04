package recipe

import (
	"net/http"
	"strconv"

	recipeService "recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜相關 API
type Handler struct {
	recipeService *recipeService.RecipeService
}

// NewHandler 創建食譜處理器
func NewHandler(recipeService *recipeService.RecipeService) *Handler {
	return &Handler{recipeService: recipeService}
}

// HandleGenerateRecipe 依偏好生成食譜
func (h *Handler) HandleGenerateRecipe(c *gin.Context) {
	var req common.GenerationRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.WriteError(c, err)
		return
	}

	common.LogInfo("Received recipe generation request",
		zap.String("request_id", requestid.Get(c)),
		zap.String("cuisine", string(req.Preferences.Cuisine)),
		zap.String("user_id", req.UserID),
	)

	resp, err := h.recipeService.Generate(c.Request.Context(), &req)
	if err != nil {
		common.LogError("Recipe generation failed",
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleRecommendations 只回傳基礎食譜推薦
func (h *Handler) HandleRecommendations(c *gin.Context) {
	var req recipeService.RecommendationRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.WriteError(c, err)
		return
	}

	resp, err := h.recipeService.Recommend(c.Request.Context(), &req)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleParse 解析模型格式的食譜文字
func (h *Handler) HandleParse(c *gin.Context) {
	var req recipeService.ParseRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.WriteError(c, err)
		return
	}

	parsed := recipeService.ParseWithCuisine(req.Text, req.Cuisine)
	c.JSON(http.StatusOK, parsed)
}

// HandleGetRecipe 依 ID 取得食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// HandleUserRecipes 使用者生成過的食譜
func (h *Handler) HandleUserRecipes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			common.WriteError(c, common.NewValidationError("limit must be an integer"))
			return
		}
		limit = n
	}

	resp, err := h.recipeService.ListUserRecipes(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
