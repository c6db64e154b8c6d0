package auth

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	radix "github.com/mediocregopher/radix/v3"
)

const (
	cacheKeyPrefix   = "goshop:jwt:"
	revokedKeyPrefix = "goshop:jwt:revoked:"
)

// TokenCache 缓存已校验的 JWT claims 并记录已注销的 token，按一致性哈希分片到多个 Redis
type TokenCache struct {
	shards map[string]radix.Client
	ring   *HashRing
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCache shards 的键是节点名（通常是 Redis 地址），为空时缓存直接失效
func NewTokenCache(shards map[string]radix.Client, replicas int, ttl time.Duration) *TokenCache {
	nodes := make([]string, 0, len(shards))
	for node, client := range shards {
		if client != nil {
			nodes = append(nodes, node)
		}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TokenCache{
		shards: shards,
		ring:   NewHashRing(nodes, replicas),
		ttl:    ttl,
		now:    time.Now,
	}
}

func tokenHash(token string) string {
	sum := sha1.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}

// client 返回负责该 token 的分片
func (c *TokenCache) client(token string) radix.Client {
	if c == nil || len(c.shards) == 0 {
		return nil
	}
	return c.shards[c.ring.Node(token)]
}

// Get 命中返回 claims；已过期的缓存视为未命中
func (c *TokenCache) Get(ctx context.Context, token string) (*Claims, bool, error) {
	rc := c.client(token)
	if rc == nil {
		return nil, false, nil
	}
	key := cacheKeyPrefix + tokenHash(token)
	var raw string
	if err := rc.Do(radix.Cmd(&raw, "GET", key)); err != nil {
		return nil, false, err
	}
	if raw == "" {
		return nil, false, nil
	}
	var claims Claims
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		_ = rc.Do(radix.Cmd(nil, "DEL", key))
		return nil, false, nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(c.now()) {
		return nil, false, nil
	}
	return &claims, true, nil
}

// Set 写入缓存，过期时间不超过 token 自身的有效期
func (c *TokenCache) Set(ctx context.Context, token string, claims *Claims) error {
	rc := c.client(token)
	if rc == nil || claims == nil {
		return nil
	}
	ttl := c.ttlFor(claims, c.ttl)
	if ttl < time.Second {
		return nil
	}
	body, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	return rc.Do(radix.FlatCmd(nil, "SETEX", cacheKeyPrefix+tokenHash(token), int64(ttl/time.Second), body))
}

// Revoke 删除缓存并记录注销标记，标记保留到 token 过期
func (c *TokenCache) Revoke(ctx context.Context, token string, claims *Claims) error {
	rc := c.client(token)
	if rc == nil {
		return nil
	}
	h := tokenHash(token)
	if err := rc.Do(radix.Cmd(nil, "DEL", cacheKeyPrefix+h)); err != nil {
		return err
	}
	ttl := c.ttlFor(claims, 0)
	if ttl < time.Second {
		return nil
	}
	return rc.Do(radix.FlatCmd(nil, "SETEX", revokedKeyPrefix+h, int64(ttl/time.Second), "1"))
}

// Revoked token 是否已注销
func (c *TokenCache) Revoked(ctx context.Context, token string) (bool, error) {
	rc := c.client(token)
	if rc == nil {
		return false, nil
	}
	var n int
	if err := rc.Do(radix.Cmd(&n, "EXISTS", revokedKeyPrefix+tokenHash(token))); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ttlFor max 为 0 时只按 token 剩余有效期计算
func (c *TokenCache) ttlFor(claims *Claims, max time.Duration) time.Duration {
	ttl := max
	if claims != nil && claims.ExpiresAt != nil {
		left := claims.ExpiresAt.Sub(c.now())
		if ttl == 0 || left < ttl {
			ttl = left
		}
	}
	return ttl
}
