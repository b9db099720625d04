package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ContextKeyErrorCode 請求日誌讀取的錯誤代碼
const ContextKeyErrorCode = "error_code"

// WriteError 依錯誤類型寫入 JSON 錯誤響應
func WriteError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	c.Set(ContextKeyErrorCode, code)
	_ = c.Error(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		// 內部錯誤不回傳細節
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// BindJSON 解析請求體，列舉錯誤保留原本的錯誤代碼，其他錯誤視為驗證錯誤
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var ce *CustomError
		if errors.As(err, &ce) {
			return err
		}
		return NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
