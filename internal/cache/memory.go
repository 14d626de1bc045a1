package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is the in-process backend: a size-bounded LRU whose entries expire
// after the TTL fixed at construction. The per-call ttl argument is ignored
// because the core applies one uniform TTL anyway.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](capacity, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	payload, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return payload, nil
}

func (m *Memory) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	m.lru.Add(key, payload)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}
