package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/core/ai/queue"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 服務：提示詞正規化、緩存、隊列
type Service struct {
	generator    provider.TextGenerator
	cacheManager *cache.CacheManager
	queue        *queue.Manager
}

// NewService 創建 AI 服務並啟動隊列
func NewService(generator provider.TextGenerator, cacheManager *cache.CacheManager, queueCfg config.QueueConfig) *Service {
	q := queue.NewManager(queueCfg, generator.Generate)
	q.Start()

	return &Service{
		generator:    generator,
		cacheManager: cacheManager,
		queue:        q,
	}
}

// GenerateText 統一對外方法：先查緩存，未命中時經由隊列呼叫模型
func (s *Service) GenerateText(ctx context.Context, systemPrompt, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", common.NewValidationError("prompt is empty")
	}

	// 快取 key 忽略空白差異，實際送出的提示詞保留換行
	key := cacheKey(s.generator.GetModel(), systemPrompt, prompt)

	if val, err := s.cacheManager.Get(ctx, key); err == nil && val != "" {
		return val, nil
	}

	req := &provider.Request{
		Messages: []provider.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	resp, err := s.queue.Submit(ctx, req)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errors.New("empty AI response")
	}

	content := strings.TrimSpace(resp.Content)
	if err := s.cacheManager.Set(ctx, key, content); err != nil {
		common.LogWarn("Failed to cache generation", zap.Error(err))
	}
	return content, nil
}

func cacheKey(model, systemPrompt, prompt string) string {
	normalise := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	return model + "\x00" + normalise(systemPrompt) + "\x00" + normalise(prompt)
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.generator.GetModel()
}

// QueueStatus 隊列狀態
func (s *Service) QueueStatus() *queue.Status {
	return s.queue.GetQueueStatus()
}

// CacheStats 緩存統計
func (s *Service) CacheStats() cache.Stats {
	return s.cacheManager.GetStats()
}

// Close 關閉隊列與模型連線
func (s *Service) Close() error {
	s.queue.Close()
	if err := s.cacheManager.Close(); err != nil {
		return err
	}
	return s.generator.Close()
}
