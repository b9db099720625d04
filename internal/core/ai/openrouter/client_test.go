package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func testClient(t *testing.T, url string, retries int) *Client {
	t.Helper()
	c := newClient(provider.Config{
		APIKey:      "sk-test",
		Model:       "test/model",
		BaseURL:     url,
		Timeout:     5 * time.Second,
		MaxRetries:  retries,
		MaxTokens:   1000,
		Temperature: 0.7,
		TopP:        0.9,
	}, config.BreakerConfig{MaxFailures: 10, Timeout: time.Second})
	c.backoff = time.Millisecond
	return c
}

func userRequest(prompt string) *provider.Request {
	return &provider.Request{Messages: []provider.Message{{Role: "user", Content: prompt}}}
}

func TestGenerate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"  Title: Test  "}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	resp, err := testClient(t, srv.URL, 1).Generate(context.Background(), userRequest("hello"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Content != "Title: Test" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 42 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
	if got.Model != "test/model" || got.MaxTokens != 1000 || got.TopP != 0.9 {
		t.Errorf("request = %+v", got)
	}
}

func TestGenerateRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	resp, err := testClient(t, srv.URL, 3).Generate(context.Background(), userRequest("hi"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Content != "ok" || atomic.LoadInt32(&calls) != 3 {
		t.Errorf("content = %q after %d calls", resp.Content, calls)
	}
}

func TestGenerateFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"server error", `{"error":"boom"}`, http.StatusInternalServerError},
		{"no choices", `{"choices":[]}`, http.StatusOK},
		{"empty content", `{"choices":[{"message":{"content":"  "}}]}`, http.StatusOK},
		{"invalid json", `not json`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(t, srv.URL, 2).Generate(context.Background(), userRequest("hi"))
			if !errors.Is(err, common.ErrAIServiceError) {
				t.Fatalf("Generate() error = %v, want ErrAIServiceError", err)
			}
		})
	}
}

func TestGenerateMockMode(t *testing.T) {
	c := newClient(provider.Config{BaseURL: "http://127.0.0.1:0"}, config.BreakerConfig{})
	resp, err := c.Generate(context.Background(), userRequest("anything"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Content != MockRecipeText {
		t.Error("mock mode should return the mock recipe")
	}
	if c.GetModel() != "mock" {
		t.Errorf("GetModel() = %q", c.GetModel())
	}
}
