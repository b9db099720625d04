package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-recommender/internal/core/ai"
	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const retryBaseDelay = time.Second

// MockRecipeText 未設定 API Key 時回傳的食譜
const MockRecipeText = `Title: Yippee! Spicy Chicken Stir Fry
Description: A delicious fusion of Indian spices with Asian stir-fry technique using Yippee noodles
Cooking Time: 25 minutes
Difficulty: Medium
Tags: spicy, fusion, chicken, quick

Ingredients:
- Yippee noodles: 2 packets
- Chicken breast: 300g, sliced
- Bell peppers: 2, sliced
- Onions: 1, sliced
- Ginger: 1 inch, minced
- Garlic: 4 cloves, minced
- Soy sauce: 2 tbsp
- Red chili powder: 1 tsp
- Garam masala: 1/2 tsp
- Oil: 2 tbsp
- Salt: to taste

Instructions:
1. Boil Yippee noodles according to package instructions and set aside (Time: 5 minutes)
2. Heat oil in a wok and add ginger-garlic paste (Time: 2 minutes)
3. Add chicken and cook until golden brown (Time: 8 minutes)
4. Add vegetables and stir-fry for 3 minutes (Time: 3 minutes)
5. Add spices and soy sauce, mix well (Time: 2 minutes)
6. Add cooked noodles and toss everything together (Time: 3 minutes)
7. Serve hot with garnishes (Time: 2 minutes)
`

// Request 表示 API 請求
type Request struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	TopP        float64            `json:"top_p,omitempty"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string         `json:"id"`
	Choices []Choice       `json:"choices"`
	Usage   provider.Usage `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message provider.Message `json:"message"`
}

// Client OpenRouter chat completions 客戶端
type Client struct {
	http    *resty.Client
	cfg     provider.Config
	breaker *gobreaker.CircuitBreaker[*provider.Response]
	mock    bool
	backoff time.Duration
}

// NewClient 創建新的 OpenRouter 客戶端，未設定 API Key 時為模擬模式
func NewClient(cfg *config.Config) *Client {
	pc := provider.Config{
		APIKey:      cfg.OpenRouter.APIKey,
		Model:       cfg.OpenRouter.Model,
		Timeout:     cfg.OpenRouter.Timeout,
		MaxRetries:  cfg.OpenRouter.MaxRetries,
		BaseURL:     cfg.OpenRouter.BaseURL,
		MaxTokens:   cfg.OpenRouter.MaxTokens,
		Temperature: cfg.OpenRouter.Temperature,
		TopP:        cfg.OpenRouter.TopP,
	}
	return newClient(pc, cfg.Breaker)
}

func newClient(pc provider.Config, bc config.BreakerConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(pc.BaseURL).
		SetTimeout(pc.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", pc.APIKey)).
		SetHeader("HTTP-Referer", "https://recipe-recommender.local").
		SetHeader("X-Title", "Yippee Recipe Recommender")

	c := &Client{
		http:    httpClient,
		cfg:     pc,
		breaker: ai.NewBreaker[*provider.Response]("openrouter", bc),
		mock:    pc.APIKey == "",
		backoff: retryBaseDelay,
	}
	if c.mock {
		common.LogWarn("OpenRouter API key not set, using mock recipe generation")
	}
	return c
}

// Generate 生成回應，失敗時依設定重試
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if c.mock {
		common.LogInfo("Using mock recipe generation")
		return &provider.Response{Content: MockRecipeText}, nil
	}

	start := time.Now()
	resp, err := ai.Retry(ctx, c.cfg.MaxRetries, c.backoff, func() (*provider.Response, error) {
		return c.breaker.Execute(func() (*provider.Response, error) {
			return c.send(ctx, req)
		})
	})
	metrics.RecordAICall("openrouter", time.Since(start), err)
	common.LogAICall("openrouter.generate", time.Since(start), err)
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(err)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := Request{
		Model:       c.cfg.Model,
		Messages:    req.Messages,
		MaxTokens:   orInt(req.MaxTokens, c.cfg.MaxTokens),
		Temperature: orFloat(req.Temperature, c.cfg.Temperature),
		TopP:        orFloat(req.TopP, c.cfg.TopP),
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenRouter response")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty content in OpenRouter response")
	}

	return &provider.Response{Content: content, Usage: result.Usage}, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	if c.mock {
		return "mock"
	}
	return c.cfg.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.cfg.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func orFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
