package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-recommender/internal/core/ai"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	apiVersion = "2023-04-01"
	analyzeURL = "/language/:analyze-text"

	kindEntities   = "EntityRecognition"
	kindKeyPhrases = "KeyPhraseExtraction"
	kindSentiment  = "SentimentAnalysis"
)

type document struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type analyzeRequest struct {
	Kind          string `json:"kind"`
	AnalysisInput struct {
		Documents []document `json:"documents"`
	} `json:"analysisInput"`
}

type analyzeResponse struct {
	Results struct {
		Documents []struct {
			Entities []struct {
				Text            string  `json:"text"`
				Category        string  `json:"category"`
				ConfidenceScore float64 `json:"confidenceScore"`
			} `json:"entities"`
			KeyPhrases []string `json:"keyPhrases"`
			Sentiment  string   `json:"sentiment"`
		} `json:"documents"`
	} `json:"results"`
}

// Client 文字分析客戶端（實體辨識、關鍵字、情緒），未設定 endpoint 時為模擬模式
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*analyzeResponse]
	mock    bool
}

// NewClient 創建文字分析客戶端
func NewClient(cfg *config.Config) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.NLP.Endpoint, "/")).
			SetTimeout(cfg.NLP.Timeout).
			SetHeader("Ocp-Apim-Subscription-Key", cfg.NLP.APIKey).
			SetQueryParam("api-version", apiVersion),
		breaker: ai.NewBreaker[*analyzeResponse]("nlp", cfg.Breaker),
		mock:    cfg.NLP.Endpoint == "" || cfg.NLP.APIKey == "",
	}
	if c.mock {
		common.LogWarn("NLP credentials not set, using mock text analysis")
	}
	return c
}

// MockInsights 模擬模式的分析結果
func MockInsights() *common.NLPInsights {
	return &common.NLPInsights{
		Entities: []common.NLPEntity{
			{Text: "chicken", Category: "Food", ConfidenceScore: 0.95},
			{Text: "bell peppers", Category: "Food", ConfidenceScore: 0.92},
			{Text: "spicy", Category: "Attribute", ConfidenceScore: 0.88},
		},
		KeyPhrases: []string{"chicken", "bell peppers", "spicy dinner", "cooking preferences"},
		Sentiment:  "positive",
	}
}

// Analyze 分析文字，任一步驟失敗即回傳錯誤
func (c *Client) Analyze(ctx context.Context, text string) (*common.NLPInsights, error) {
	if c.mock {
		common.LogInfo("Using mock NLP response")
		return MockInsights(), nil
	}

	start := time.Now()
	insights, err := c.analyze(ctx, text)
	metrics.RecordAICall("nlp", time.Since(start), err)
	common.LogAICall("nlp.analyze", time.Since(start), err)
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(err)
	}

	common.LogInfo("NLP processing completed",
		zap.Int("entities", len(insights.Entities)),
		zap.Int("key_phrases", len(insights.KeyPhrases)),
	)
	return insights, nil
}

func (c *Client) analyze(ctx context.Context, text string) (*common.NLPInsights, error) {
	insights := common.NeutralInsights()

	entities, err := c.call(ctx, kindEntities, text)
	if err != nil {
		return nil, err
	}
	for _, doc := range entities.Results.Documents {
		for _, e := range doc.Entities {
			insights.Entities = append(insights.Entities, common.NLPEntity{
				Text:            e.Text,
				Category:        e.Category,
				ConfidenceScore: e.ConfidenceScore,
			})
		}
	}

	phrases, err := c.call(ctx, kindKeyPhrases, text)
	if err != nil {
		return nil, err
	}
	for _, doc := range phrases.Results.Documents {
		insights.KeyPhrases = append(insights.KeyPhrases, doc.KeyPhrases...)
	}

	sentiment, err := c.call(ctx, kindSentiment, text)
	if err != nil {
		return nil, err
	}
	if docs := sentiment.Results.Documents; len(docs) > 0 && docs[0].Sentiment != "" {
		insights.Sentiment = docs[0].Sentiment
	}

	return insights, nil
}

func (c *Client) call(ctx context.Context, kind, text string) (*analyzeResponse, error) {
	return c.breaker.Execute(func() (*analyzeResponse, error) {
		var body analyzeRequest
		body.Kind = kind
		body.AnalysisInput.Documents = []document{{ID: "1", Language: "en", Text: text}}

		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(body).
			Post(analyzeURL)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w", kind, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("%s returned status %d", kind, resp.StatusCode())
		}

		var result analyzeResponse
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", kind, err)
		}
		return &result, nil
	})
}
