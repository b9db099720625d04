package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/infrastructure/config"
)

type fakeGenerator struct {
	calls   int32
	content string
	err     error
	last    *provider.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content}, nil
}

func (f *fakeGenerator) GetModel() string          { return "fake" }
func (f *fakeGenerator) GetTimeout() time.Duration { return time.Second }
func (f *fakeGenerator) Close() error              { return nil }

func newService(t *testing.T, gen *fakeGenerator, withCache bool) *Service {
	t.Helper()
	cm := cache.NewManager(config.CacheConfig{
		Enabled:         withCache,
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	s := NewService(gen, cm, config.QueueConfig{Workers: 1, MaxSize: 5})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGenerateTextUsesCache(t *testing.T) {
	gen := &fakeGenerator{content: "  Title: Cached  "}
	s := newService(t, gen, true)
	ctx := context.Background()

	got, err := s.GenerateText(ctx, "system", "line one\nline two")
	if err != nil || got != "Title: Cached" {
		t.Fatalf("GenerateText() = %q, %v", got, err)
	}
	if gen.last.Messages[0].Role != "system" || gen.last.Messages[1].Content != "line one\nline two" {
		t.Errorf("request = %+v", gen.last.Messages)
	}

	// 空白差異視為同一個提示詞
	if _, err := s.GenerateText(ctx, "system", "line one   line two"); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&gen.calls); n != 1 {
		t.Errorf("generator called %d times, want 1", n)
	}
	if s.CacheStats().Hits != 1 {
		t.Errorf("cache hits = %d", s.CacheStats().Hits)
	}
}

func TestGenerateTextWithoutCache(t *testing.T) {
	gen := &fakeGenerator{content: "text"}
	s := newService(t, gen, false)

	for i := 0; i < 2; i++ {
		if _, err := s.GenerateText(context.Background(), "sys", "prompt"); err != nil {
			t.Fatal(err)
		}
	}
	if n := atomic.LoadInt32(&gen.calls); n != 2 {
		t.Errorf("generator called %d times, want 2", n)
	}
	if s.QueueStatus().ProcessedCount != 2 {
		t.Errorf("processed = %d", s.QueueStatus().ProcessedCount)
	}
}

func TestGenerateTextErrors(t *testing.T) {
	boom := errors.New("boom")
	s := newService(t, &fakeGenerator{err: boom}, true)
	if _, err := s.GenerateText(context.Background(), "sys", "prompt"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}

	s = newService(t, &fakeGenerator{content: "   "}, true)
	if _, err := s.GenerateText(context.Background(), "sys", "prompt"); err == nil {
		t.Error("empty response should fail")
	}
	if _, err := s.GenerateText(context.Background(), "sys", "  "); err == nil {
		t.Error("empty prompt should fail")
	}
}
