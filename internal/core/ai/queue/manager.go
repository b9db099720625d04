package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Handler 實際執行生成的函式
type Handler func(ctx context.Context, req *provider.Request) (*provider.Response, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 限制同時進行的生成請求數量
type Manager struct {
	config    config.QueueConfig
	handler   Handler
	queue     chan *Request
	processed int64
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig, handler Handler) *Manager {
	return &Manager{
		config:  cfg,
		handler: handler,
		queue:   make(chan *Request, cfg.MaxSize),
	}
}

// Start 啟動 worker
func (m *Manager) Start() {
	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	common.LogInfo("Generation queue started",
		zap.Int("workers", m.config.Workers),
		zap.Int("max_queue_size", m.config.MaxSize),
	)
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for req := range m.queue {
		metrics.QueueLength.Set(float64(len(m.queue)))

		var res Result
		if err := req.Context.Err(); err != nil {
			res.Error = err
		} else {
			res.Response, res.Error = m.handler(req.Context, req.Request)
		}
		atomic.AddInt64(&m.processed, 1)

		if res.Error != nil {
			common.LogDebug("Queued request failed", zap.Int("worker", id), zap.Error(res.Error))
		}
		req.Result <- res
	}
}

// Enqueue 將請求加入隊列，隊列已滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}

	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		metrics.QueueLength.Set(float64(len(m.queue)))
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		common.LogWarn("Generation queue full", zap.Int("max_queue_size", m.config.MaxSize))
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	result, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-result:
		return res.Response, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止接收新請求並等待 worker 結束
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
}
