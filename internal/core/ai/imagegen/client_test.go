package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-recommender/internal/infrastructure/config"
)

const placeholder = "https://example.com/placeholder.png"

func testConfig(url string, enabled bool) *config.Config {
	return &config.Config{
		ImageGen: config.ImageGenConfig{
			Enabled:        enabled,
			BaseURL:        url,
			APIKey:         "img-key",
			Model:          "dall-e-3",
			Size:           "1024x1024",
			Timeout:        5 * time.Second,
			PlaceholderURL: placeholder,
			MaxImageBytes:  1 << 20,
		},
		Breaker: config.BreakerConfig{MaxFailures: 5, Timeout: time.Second},
	}
}

func TestGenerateImageURL(t *testing.T) {
	var req generationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer img-key" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = w.Write([]byte(`{"data":[{"url":"https://cdn.example.com/dish.png"}]}`))
	}))
	defer srv.Close()

	got, err := NewClient(testConfig(srv.URL, true)).GenerateImage(context.Background(), "Delicious noodles")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if got != "https://cdn.example.com/dish.png" {
		t.Errorf("GenerateImage() = %q", got)
	}
	if req.Prompt != "Delicious noodles" || req.N != 1 || req.Size != "1024x1024" {
		t.Errorf("request = %+v", req)
	}
}

func TestGenerateImageBase64(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	b64 := base64.StdEncoding.EncodeToString(buf.Bytes())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"` + b64 + `"}]}`))
	}))
	defer srv.Close()

	got, _ := NewClient(testConfig(srv.URL, true)).GenerateImage(context.Background(), "x")
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Errorf("GenerateImage() = %.40s", got)
	}
}

func TestGenerateImageFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got, err := NewClient(testConfig(srv.URL, true)).GenerateImage(context.Background(), "x")
	if err != nil || got != FallbackImageURL {
		t.Errorf("failure = %q, %v; want fallback URL", got, err)
	}

	got, err = NewClient(testConfig(srv.URL, false)).GenerateImage(context.Background(), "x")
	if err != nil || got != placeholder {
		t.Errorf("disabled = %q, %v; want placeholder", got, err)
	}
}
