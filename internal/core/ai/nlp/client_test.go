package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		NLP:     config.NLPConfig{Endpoint: endpoint, APIKey: "nlp-key", Timeout: 5 * time.Second},
		Breaker: config.BreakerConfig{MaxFailures: 5, Timeout: time.Second},
	}
}

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api-version") != apiVersion {
			t.Errorf("api-version = %q", r.URL.Query().Get("api-version"))
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "nlp-key" {
			t.Error("missing subscription key")
		}
		var req analyzeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		switch req.Kind {
		case kindEntities:
			_, _ = w.Write([]byte(`{"results":{"documents":[{"id":"1","entities":[{"text":"paneer","category":"Food","confidenceScore":0.9}]}]}}`))
		case kindKeyPhrases:
			_, _ = w.Write([]byte(`{"results":{"documents":[{"id":"1","keyPhrases":["spicy dinner","paneer"]}]}}`))
		case kindSentiment:
			_, _ = w.Write([]byte(`{"results":{"documents":[{"id":"1","sentiment":"positive"}]}}`))
		default:
			t.Errorf("unexpected kind %q", req.Kind)
		}
	}))
	defer srv.Close()

	got, err := NewClient(testConfig(srv.URL)).Analyze(context.Background(), "Cuisine: Indian")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(got.Entities) != 1 || got.Entities[0].Text != "paneer" {
		t.Errorf("Entities = %+v", got.Entities)
	}
	if len(got.KeyPhrases) != 2 || got.Sentiment != "positive" {
		t.Errorf("insights = %+v", got)
	}
}

func TestAnalyzeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Analyze(context.Background(), "text")
	if !errors.Is(err, common.ErrAIServiceError) {
		t.Fatalf("Analyze() error = %v, want ErrAIServiceError", err)
	}
}

func TestAnalyzeMock(t *testing.T) {
	got, err := NewClient(testConfig("")).Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Sentiment != "positive" || len(got.Entities) != 3 {
		t.Errorf("mock insights = %+v", got)
	}
}
