package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 JSON 儲存值的 Redis 緩存
type RedisStore struct {
	client *redis.Client
	name   string
}

// NewRedisStore 連線 Redis，未設定位址時回傳 nil
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, name string) (*RedisStore, error) {
	if cfg.Addr == "" {
		common.LogInfo("Redis address not set, cache disabled", zap.String("cache", name))
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Connected to Redis", zap.String("addr", cfg.Addr), zap.String("cache", name))
	return &RedisStore{client: client, name: name}, nil
}

// Get 讀取並解析 JSON，不存在時回傳 ErrCacheMiss
func (s *RedisStore) Get(ctx context.Context, key string, dst interface{}) error {
	if s == nil {
		return common.ErrCacheDisabled
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup(s.name, false)
			return common.ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	metrics.RecordCacheLookup(s.name, true)
	return nil
}

// Set 以 JSON 寫入並設定存活時間
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete 刪除緩存
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (s *RedisStore) Ping(ctx context.Context) error {
	if s == nil {
		return common.ErrCacheDisabled
	}
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
