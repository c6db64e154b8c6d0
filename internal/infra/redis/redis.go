package redis

import (
	"fmt"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/example/goshop/internal/config"
)

// Open 创建 Redis 连接池，未启用时返回 nil
func Open(cfg config.RedisConfig) (radix.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	size := cfg.PoolSize
	if size <= 0 {
		size = 10
	}
	pool, err := radix.NewPool("tcp", cfg.Addr, size)
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return pool, nil
}

// OpenShards 为每个地址创建连接池，addrs 为空时只用 cfg.Addr
func OpenShards(cfg config.RedisConfig, addrs []string) (map[string]radix.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if len(addrs) == 0 {
		addrs = []string{cfg.Addr}
	}
	shards := make(map[string]radix.Client, len(addrs))
	for _, addr := range addrs {
		if _, ok := shards[addr]; ok {
			continue
		}
		shard := cfg
		shard.Addr = addr
		client, err := Open(shard)
		if err != nil {
			for _, c := range shards {
				_ = c.Close()
			}
			return nil, err
		}
		shards[addr] = client
	}
	return shards, nil
}
