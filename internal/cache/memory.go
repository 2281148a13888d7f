package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// DefaultMaxEntries bounds the in-memory cache when no size is given
const DefaultMaxEntries = 10000

type memoryEntry struct {
	raw      []byte
	storedAt time.Time
}

// MemoryCache keeps encoded reports in process memory.
// Reports are stored as JSON so callers never share a mutable value.
// Entries expire after the TTL; when full, expired entries are purged and
// then the oldest entry is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a cache; zero values select DefaultTTL and DefaultMaxEntries
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (*domain.TaxReport, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.expired(entry, m.now()) {
		m.mu.Lock()
		if current, still := m.data[key]; still && current.storedAt.Equal(entry.storedAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	var report domain.TaxReport
	if err := json.Unmarshal(entry.raw, &report); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached report %s: %w", key, err)
	}
	return &report, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, report *domain.TaxReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.evictLocked(now)
	}
	m.data[key] = memoryEntry{raw: raw, storedAt: now}
	return nil
}

// evictLocked drops expired entries, or the oldest one if none expired
func (m *MemoryCache) evictLocked(now time.Time) {
	var oldestKey string
	var oldest time.Time
	purged := false
	for k, e := range m.data {
		if m.expired(e, now) {
			delete(m.data, k)
			purged = true
			continue
		}
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = k, e.storedAt
		}
	}
	if !purged && oldestKey != "" {
		delete(m.data, oldestKey)
	}
}

func (m *MemoryCache) expired(e memoryEntry, now time.Time) bool {
	return now.Sub(e.storedAt) >= m.ttl
}

// Len reports the number of cached entries, expired ones included until evicted
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear drops every entry
func (m *MemoryCache) Clear() {
	m.mu.Lock()
	m.data = make(map[string]memoryEntry)
	m.mu.Unlock()
}
