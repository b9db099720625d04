package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recipe-recommender/internal/core/ai"
	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// FallbackImageURL 生成失敗時使用的圖片
const FallbackImageURL = "https://via.placeholder.com/1024x1024/FF6B35/FFFFFF?text=Recipe+Image"

// generationRequest 圖片生成請求
type generationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

// generationResponse 圖片生成回應，URL 與 b64_json 擇一
type generationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Client 圖片生成客戶端，停用時回傳預設圖片
type Client struct {
	http        *resty.Client
	cfg         config.ImageGenConfig
	normalizer  *image.Service
	breaker     *gobreaker.CircuitBreaker[string]
	placeholder string
}

// NewClient 創建圖片生成客戶端
func NewClient(cfg *config.Config) *Client {
	ic := cfg.ImageGen
	c := &Client{
		http: resty.New().
			SetBaseURL(ic.BaseURL).
			SetTimeout(ic.Timeout).
			SetAuthToken(ic.APIKey),
		cfg:         ic,
		normalizer:  image.NewService(ic.MaxImageBytes),
		breaker:     ai.NewBreaker[string]("image_gen", cfg.Breaker),
		placeholder: ic.PlaceholderURL,
	}
	if !ic.Enabled || ic.APIKey == "" {
		common.LogWarn("Image generation disabled, using placeholder images")
	}
	return c
}

// GenerateImage 生成圖片並回傳 URL；任何失敗都回傳預設圖片且不回傳錯誤
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.cfg.Enabled || c.cfg.APIKey == "" {
		return c.placeholder, nil
	}

	start := time.Now()
	url, err := c.breaker.Execute(func() (string, error) {
		return c.send(ctx, prompt)
	})
	metrics.RecordAICall("image_gen", time.Since(start), err)
	common.LogAICall("image_gen.generate", time.Since(start), err)
	if err != nil {
		common.LogWarn("Image generation failed, using fallback image", zap.Error(err))
		return FallbackImageURL, nil
	}
	return url, nil
}

func (c *Client) send(ctx context.Context, prompt string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generationRequest{
			Model:   c.cfg.Model,
			Prompt:  prompt,
			Size:    c.cfg.Size,
			Quality: "standard",
			N:       1,
		}).
		Post("/images/generations")
	if err != nil {
		return "", fmt.Errorf("failed to send image request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("image API returned status %d", resp.StatusCode())
	}

	var result generationResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse image response: %w", err)
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("no images in response")
	}

	item := result.Data[0]
	switch {
	case item.URL != "":
		return item.URL, nil
	case item.B64JSON != "":
		return c.normalizer.Normalize(item.B64JSON)
	}
	return "", fmt.Errorf("image response has neither url nor b64_json")
}
