package service

import (
	"sync"
	"time"
)

// Monitor 下单相关的计数器，供 /monitor/stats 展示
type Monitor struct {
	mu sync.RWMutex

	CheckoutRequests   int64
	CheckoutSuccess    int64
	InsufficientStock  int64
	CheckoutFailed     int64
	DBErrors           int64
	EventPublishErrors int64

	LastCheckout     time.Time
	LastDBError      time.Time
	LastPublishError time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// RecordCheckoutRequest 记录下单请求
func (m *Monitor) RecordCheckoutRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutRequests++
	m.LastCheckout = time.Now()
}

func (m *Monitor) RecordCheckoutSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutSuccess++
}

func (m *Monitor) RecordInsufficientStock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsufficientStock++
	m.CheckoutFailed++
}

// RecordCheckoutFailed 记录库存不足以外的业务失败
func (m *Monitor) RecordCheckoutFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutFailed++
}

func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.CheckoutFailed++
	m.LastDBError = time.Now()
}

func (m *Monitor) RecordPublishError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventPublishErrors++
	m.LastPublishError = time.Now()
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.CheckoutRequests > 0 {
		successRate = float64(m.CheckoutSuccess) / float64(m.CheckoutRequests) * 100
	}

	return map[string]interface{}{
		"errors": map[string]interface{}{
			"db":            m.DBErrors,
			"event_publish": m.EventPublishErrors,
		},
		"checkout": map[string]interface{}{
			"requests":           m.CheckoutRequests,
			"success":            m.CheckoutSuccess,
			"failed":             m.CheckoutFailed,
			"insufficient_stock": m.InsufficientStock,
			"success_rate":       successRate,
		},
		"last_events": map[string]interface{}{
			"checkout":      m.LastCheckout,
			"db_error":      m.LastDBError,
			"publish_error": m.LastPublishError,
		},
	}
}
