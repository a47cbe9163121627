package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const minMemoryEntries = 16

// Memory is an in-process Backend built on an expirable LRU.
// Tag links of evicted keys are dropped lazily on invalidation.
type Memory struct {
	mu   sync.Mutex
	lru  *expirable.LRU[string, []byte]
	tags map[string]map[string]struct{}
}

// NewMemory creates a memory backend holding at most size entries for ttl.
// A zero ttl keeps entries until they are evicted or invalidated.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size < minMemoryEntries {
		size = minMemoryEntries
	}

	return &Memory{
		lru:  expirable.NewLRU[string, []byte](size, nil, ttl),
		tags: make(map[string]map[string]struct{}),
	}
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)

	return out, true, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key string, value []byte, tags []string) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lru.Add(key, buf)

	for _, tag := range tags {
		keys, ok := m.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tags[tag] = keys
		}

		keys[key] = struct{}{}
	}

	return nil
}

// Delete implements Backend.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.lru.Remove(key)
	}

	return nil
}

// InvalidateTags implements Backend.
func (m *Memory) InvalidateTags(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range tags {
		for key := range m.tags[tag] {
			m.lru.Remove(key)
		}

		delete(m.tags, tag)
	}

	return nil
}

// Close implements Backend.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lru.Purge()
	m.tags = make(map[string]map[string]struct{})

	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}
