// Package metrics 提供 Prometheus 指標
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 依方法、路由、狀態碼統計請求數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration 請求處理時間
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// GenerationsTotal 食譜生成次數，outcome 為 generated、fallback 或 failed
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_generations_total",
			Help: "Total number of recipe generations by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendationsReturned 每次回傳的推薦數量
	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_recommendations_returned",
			Help:    "Number of recommendations returned per ranking",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10},
		},
	)

	// AICallsTotal 外部 AI 服務呼叫次數
	AICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ai_calls_total",
			Help: "Total number of external AI service calls",
		},
		[]string{"service", "outcome"},
	)

	// AICallDuration 外部 AI 服務呼叫時間
	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_ai_call_duration_seconds",
			Help:    "Duration of external AI service calls in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service"},
	)

	// CircuitBreakerState 熔斷器狀態（0=closed, 1=half-open, 2=open）
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CacheOperationsTotal 緩存命中與未命中
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_operations_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"cache", "result"},
	)

	// QueueLength 生成隊列長度
	QueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_queue_length",
			Help: "Number of generation requests waiting in the queue",
		},
	)
)

// RecordHTTPRequest 記錄一次 HTTP 請求
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAICall 記錄一次外部 AI 呼叫
func RecordAICall(service string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	AICallsTotal.WithLabelValues(service, outcome).Inc()
	AICallDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordCacheLookup 記錄緩存查詢結果
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheOperationsTotal.WithLabelValues(cache, result).Inc()
}
