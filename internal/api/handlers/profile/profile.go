package profile

import (
	"net/http"

	profileService "recipe-recommender/internal/core/profile"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SaveRecipeRequest 收藏食譜
type SaveRecipeRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// DislikedIngredientRequest 加入不喜歡的食材
type DislikedIngredientRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// Handler 使用者檔案 API
type Handler struct {
	profiles *profileService.Service
}

// NewHandler 創建使用者檔案處理器
func NewHandler(profiles *profileService.Service) *Handler {
	return &Handler{profiles: profiles}
}

// HandleGetProfile 取得使用者檔案
func (h *Handler) HandleGetProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if p == nil {
		common.WriteError(c, common.ErrProfileNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// HandleSaveRecipe 收藏食譜
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	var req SaveRecipeRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.WriteError(c, err)
		return
	}

	p, err := h.profiles.SaveRecipe(c.Request.Context(), c.Param("id"), req.RecipeID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// HandleAddDisliked 加入不喜歡的食材
func (h *Handler) HandleAddDisliked(c *gin.Context) {
	var req DislikedIngredientRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.WriteError(c, err)
		return
	}

	p, err := h.profiles.AddDislikedIngredient(c.Request.Context(), c.Param("id"), req.Ingredient)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// HandleClearCache 清除使用者檔案緩存
func (h *Handler) HandleClearCache(c *gin.Context) {
	if err := h.profiles.ClearCache(c.Request.Context(), c.Param("id")); err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "user_id": c.Param("id")})
}
