package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

const dataURLPrefix = "data:image/"

// Service 將圖片生成服務回傳的 base64 內容正規化為 JPEG data URL
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{maxSizeBytes: maxSizeBytes}
}

// Normalize 接受 data URL 或純 base64，回傳 JPEG data URL
func (s *Service) Normalize(payload string) (string, error) {
	img, _, err := s.decode(payload)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Validate 檢查 payload 是否為支援格式且未超過大小限制，回傳格式名稱
func (s *Service) Validate(payload string) (string, error) {
	_, format, err := s.decode(payload)
	return format, err
}

func (s *Service) decode(payload string) (image.Image, string, error) {
	raw := strings.TrimSpace(payload)
	if raw == "" {
		return nil, "", fmt.Errorf("image data is empty")
	}
	if strings.HasPrefix(raw, dataURLPrefix) {
		_, data, ok := strings.Cut(raw, ",")
		if !ok {
			return nil, "", fmt.Errorf("invalid data URL format")
		}
		raw = data
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 data: %w", err)
	}

	// 檢查文件大小
	if s.maxSizeBytes > 0 && int64(len(decoded)) > s.maxSizeBytes {
		return nil, "", fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !isSupportedFormat(format) {
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}
	return img, format, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
