package middleware

import (
	"net/http"
	"time"

	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger 請求日誌，以路由樣板歸類並帶上使用者與錯誤代碼
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestid.Get(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", routeLabel(c)),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if userID := c.Param("id"); userID != "" {
			fields = append(fields, zap.String("resource_id", userID))
		}
		if code := c.GetString(common.ContextKeyErrorCode); code != "" {
			fields = append(fields, zap.String("error_code", code))
		}
		if err := c.Errors.Last(); err != nil {
			fields = append(fields, zap.Error(err.Err))
		}

		switch {
		case status >= http.StatusInternalServerError:
			common.LogError(common.MsgRequestCompleted, fields...)
		case status >= http.StatusBadRequest:
			common.LogWarn(common.MsgRequestCompleted, fields...)
		default:
			common.LogInfo(common.MsgRequestCompleted, fields...)
		}
	}
}

// Recovery 將 panic 轉為 500 錯誤響應
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				common.LogError("Panic recovered",
					zap.Any("panic", p),
					zap.String("route", routeLabel(c)),
					zap.String("request_id", requestid.Get(c)),
				)
				c.Set(common.ContextKeyErrorCode, common.ErrCodeInternalError)
				c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrorResponse{
					Code:    common.ErrCodeInternalError,
					Message: "internal server error",
				})
			}
		}()

		c.Next()
	}
}

// routeLabel 路由樣板（如 /api/v1/recipes/:id），未匹配時為 unmatched
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
