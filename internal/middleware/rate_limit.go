package middleware

import (
	"sync"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/config"
)

// TokenBucket 令牌桶限流器
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // 每秒补充的令牌数
	lastRefill time.Time
	now        func() time.Time
}

// NewTokenBucket 创建令牌桶，初始为满
func NewTokenBucket(capacity, refillPerSecond int64) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: float64(refillPerSecond),
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// NewTokenBucketFromConfig 按配置创建
func NewTokenBucketFromConfig(cfg config.RateLimitConfig) *TokenBucket {
	return NewTokenBucket(cfg.Capacity, cfg.RefillPerSecond)
}

// Allow 检查是否允许请求
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if elapsed := now.Sub(tb.lastRefill); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.refillRate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit 限流中间件，超限返回 429
func RateLimit(bucket *TokenBucket) iris.Handler {
	return func(ctx iris.Context) {
		if !bucket.Allow() {
			ctx.StopWithJSON(iris.StatusTooManyRequests, iris.Map{
				"code": iris.StatusTooManyRequests,
				"msg":  "too many requests, please retry later",
			})
			return
		}
		ctx.Next()
	}
}
