package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process cache. Values are stored JSON-encoded so callers
// never share mutable state with the cache.
type Memory struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]memoryEntry
	gens  map[string]uint64
	now   func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		gens:  make(map[string]uint64),
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	now := m.now()
	m.mu.Lock()
	m.sweep(now)
	m.items[key] = memoryEntry{data: data, expires: now.Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// sweep drops expired entries, including orphans of older generations.
func (m *Memory) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for k, e := range m.items {
		if now.After(e.expires) {
			delete(m.items, k)
		}
	}
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Generation(_ context.Context, key string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gens[key], nil
}

func (m *Memory) Bump(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, stamp(k, m.gens[k]))
		m.gens[k]++
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
