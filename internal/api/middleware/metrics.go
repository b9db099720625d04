package middleware

import (
	"strconv"
	"time"

	"recipe-recommender/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 記錄請求數與處理時間，路由以樣板路徑標記
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		metrics.RecordHTTPRequest(c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
