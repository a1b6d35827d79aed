package cache

import (
	"context"
	"sync"
	"time"
)

// memoryStore 进程内的带过期键值表，本地开发和测试不依赖 Redis
type memoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemory 返回以进程内存为后端的 Cache
func NewMemory() *Cache {
	return &Cache{backend: &memoryStore{items: make(map[string]memoryEntry)}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return "", errNotFound
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return "", errNotFound
	}
	return e.value, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.items[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}
