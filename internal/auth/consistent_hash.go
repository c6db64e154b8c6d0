package auth

import (
	"hash/crc32"
	"sort"
	"strconv"
	"sync"
)

const defaultRingNode = "goshop-auth-0"

// HashRing 一致性哈希环，把 token 缓存键分散到各鉴权节点
type HashRing struct {
	mu       sync.RWMutex
	hash     func(data []byte) uint32
	replicas int
	keys     []uint32 // 已排序的虚拟节点哈希
	owner    map[uint32]string
	nodes    map[string]struct{}
}

// NewHashRing 创建哈希环，nodes 为空时使用单个默认节点
func NewHashRing(nodes []string, replicas int) *HashRing {
	if replicas <= 0 {
		replicas = 50
	}
	if len(nodes) == 0 {
		nodes = []string{defaultRingNode}
	}
	r := &HashRing{
		hash:     crc32.ChecksumIEEE,
		replicas: replicas,
		owner:    make(map[uint32]string),
		nodes:    make(map[string]struct{}),
	}
	r.Add(nodes...)
	return r
}

// Add 加入节点，已存在的节点忽略
func (r *HashRing) Add(nodes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, node := range nodes {
		if _, ok := r.nodes[node]; ok || node == "" {
			continue
		}
		r.nodes[node] = struct{}{}
		for i := 0; i < r.replicas; i++ {
			h := r.hash([]byte(node + "#" + strconv.Itoa(i)))
			r.keys = append(r.keys, h)
			r.owner[h] = node
		}
	}
	sort.Slice(r.keys, func(i, j int) bool { return r.keys[i] < r.keys[j] })
}

// Remove 摘除节点及其虚拟节点
func (r *HashRing) Remove(node string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[node]; !ok {
		return
	}
	delete(r.nodes, node)
	keys := r.keys[:0]
	for _, h := range r.keys {
		if r.owner[h] == node {
			delete(r.owner, h)
			continue
		}
		keys = append(keys, h)
	}
	r.keys = keys
}

// Node 返回负责 key 的节点，环为空时返回空串
func (r *HashRing) Node(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.keys) == 0 {
		return ""
	}
	h := r.hash([]byte(key))
	idx := sort.Search(len(r.keys), func(i int) bool { return r.keys[i] >= h })
	if idx == len(r.keys) {
		idx = 0
	}
	return r.owner[r.keys[idx]]
}

// Len 节点数量
func (r *HashRing) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
