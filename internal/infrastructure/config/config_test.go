package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommendation.TopN != 5 {
		t.Errorf("Recommendation = %+v", cfg.Recommendation)
	}
	if cfg.OpenRouter.MaxTokens != 1000 || cfg.OpenRouter.MaxRetries != 3 {
		t.Errorf("OpenRouter = %+v", cfg.OpenRouter)
	}
	if cfg.Redis.ProfileTTL != time.Hour {
		t.Errorf("Redis.ProfileTTL = %v, want 1h", cfg.Redis.ProfileTTL)
	}
	if cfg.Server.MaxBodyBytes != 10*1024*1024 {
		t.Errorf("Server.MaxBodyBytes = %d", cfg.Server.MaxBodyBytes)
	}
	if !cfg.UseMockAI() || !cfg.UseMemoryStore() {
		t.Error("expected mock AI and memory store without credentials")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "sk-test-key-123456")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("APP_RECOMMENDATION_TOP_N", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.UseMockAI() || cfg.UseMemoryStore() {
		t.Error("credentials from env were not applied")
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Recommendation.TopN != 3 {
		t.Errorf("Recommendation.TopN = %d, want 3", cfg.Recommendation.TopN)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("RateLimit.Window = %v", cfg.RateLimit.Window)
	}
}

func TestLoadConfigRejectsLargeTopN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_RECOMMENDATION_TOP_N", "20")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() accepted top_n above the recommendation limit")
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv 會寫入行程環境，結束後還原
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:         ServerConfig{Port: 8080, MaxBodyBytes: 1024},
			Cache:          CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Minute},
			Queue:          QueueConfig{Workers: 1, MaxSize: 1},
			RateLimit:      RateLimitConfig{Enabled: true, Requests: 1, Window: time.Second},
			Recommendation: RecommendationConfig{TopN: 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"cache size", func(c *Config) { c.Cache.MaxSize = 0 }, true},
		{"cache disabled skips checks", func(c *Config) { c.Cache = CacheConfig{} }, false},
		{"queue workers", func(c *Config) { c.Queue.Workers = 0 }, true},
		{"rate limit window", func(c *Config) { c.RateLimit.Window = 0 }, true},
		{"top n", func(c *Config) { c.Recommendation.TopN = 0 }, true},
		{"top n above max", func(c *Config) { c.Recommendation.TopN = MaxRecommendations + 1 }, true},
		{"top n at max", func(c *Config) { c.Recommendation.TopN = MaxRecommendations }, false},
		{"negative retries", func(c *Config) { c.OpenRouter.MaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := validateConfig(cfg); (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey("short"); got != "****" {
		t.Errorf("MaskAPIKey(short) = %q", got)
	}
	if got := MaskAPIKey("sk-abcdefgh1234"); got != "sk-a...1234" {
		t.Errorf("MaskAPIKey() = %q", got)
	}
}
