package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.OpenRouter.APIKey = ""
	cfg.MongoDB.URI = ""
	cfg.Redis.Addr = ""
	cfg.NLP.Endpoint = ""
	cfg.ImageGen.Enabled = false
	cfg.RateLimit.Enabled = false

	svc, err := NewServices(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}
	t.Cleanup(func() { svc.Close(context.Background()) })
	return SetupRouter(cfg, svc)
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const generateBody = `{
	"user_id": "%s",
	"preferences": {
		"cuisine": "indian",
		"spice_level": "Spicy",
		"meal_type": ["Dinner"],
		"max_cooking_time": "30 mins",
		"dietary_restrictions": ["Vegetarian"],
		"available_ingredients": ["onions"]
	}
}`

func TestGenerateRecipeEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodPost, "/api/v1/generate-recipe", strings.Replace(generateBody, "%s", "u1", 1))
	if w.Code != http.StatusOK {
		t.Fatalf("generate = %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}

	var resp common.GenerationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Recipe == nil || resp.Recipe.Title != "Yippee! Spicy Chicken Stir Fry" {
		t.Fatalf("recipe = %+v", resp.Recipe)
	}
	if resp.Recipe.Cuisine != "Indian" {
		t.Errorf("cuisine = %q, want canonical label", resp.Recipe.Cuisine)
	}
	if len(resp.Recommendations) != 2 || resp.Recommendations[0].ID != "base-1" {
		t.Errorf("recommendations = %+v", resp.Recommendations)
	}

	w = request(r, http.MethodGet, "/api/v1/recipes/"+resp.Recipe.ID, "")
	if w.Code != http.StatusOK {
		t.Errorf("get recipe = %d", w.Code)
	}

	w = request(r, http.MethodGet, "/api/v1/user/u1/recipes?limit=5", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), resp.Recipe.ID) {
		t.Errorf("user recipes = %d %s", w.Code, w.Body.String())
	}

	w = request(r, http.MethodGet, "/api/v1/user/u1/profile", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), resp.Recipe.ID) {
		t.Errorf("profile = %d %s", w.Code, w.Body.String())
	}
}

func TestRequestValidation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"unknown cuisine", "/api/v1/generate-recipe", `{"preferences":{"cuisine":"Martian","spice_level":"Mild","meal_type":["Lunch"],"max_cooking_time":"15 mins"}}`, http.StatusBadRequest},
		{"missing preferences", "/api/v1/generate-recipe", `{"user_id":"u2"}`, http.StatusBadRequest},
		{"missing meal type", "/api/v1/recommendations", `{"preferences":{"cuisine":"Asian","spice_level":"Mild","meal_type":[],"max_cooking_time":"15 mins"}}`, http.StatusBadRequest},
		{"malformed json", "/api/v1/recipes/parse", `{"text":`, http.StatusBadRequest},
		{"missing ingredient", "/api/v1/user/u1/disliked", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestRecommendationsAndParse(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodPost, "/api/v1/recommendations",
		`{"preferences":{"cuisine":"Asian","spice_level":"Mild","meal_type":["Lunch"],"max_cooking_time":"30 mins"}}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":2`) {
		t.Errorf("recommendations = %d %s", w.Code, w.Body.String())
	}

	w = request(r, http.MethodPost, "/api/v1/recipes/parse", `{"text":"Ingredients:\n- Noodles: 1 packet","cuisine":"Thai"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("parse = %d %s", w.Code, w.Body.String())
	}
	var parsed common.ParsedRecipe
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	if parsed.Title != "Yippee! Thai Delight" || len(parsed.Ingredients) != 1 {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestProfileRoutes(t *testing.T) {
	r := newTestRouter(t)

	if w := request(r, http.MethodGet, "/api/v1/user/nobody/profile", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing profile = %d", w.Code)
	}
	if w := request(r, http.MethodGet, "/api/v1/recipes/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing recipe = %d", w.Code)
	}

	w := request(r, http.MethodPost, "/api/v1/user/u9/saved", `{"recipe_id":"base-2"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "base-2") {
		t.Errorf("save = %d %s", w.Code, w.Body.String())
	}
	w = request(r, http.MethodPost, "/api/v1/user/u9/disliked", `{"ingredient":"Ginger"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Ginger") {
		t.Errorf("disliked = %d %s", w.Code, w.Body.String())
	}

	// 未設定 Redis 時清除緩存回傳 503
	if w := request(r, http.MethodDelete, "/api/v1/user/u9/cache", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("clear cache = %d", w.Code)
	}
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		if w := request(r, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}

	w := request(r, http.MethodGet, "/health", "")
	if !strings.Contains(w.Body.String(), `"model":"mock"`) {
		t.Errorf("health = %s", w.Body.String())
	}
}
