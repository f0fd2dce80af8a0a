package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/metrics"
)

const DefaultMemoryCapacity = 5000

type memoryEntry struct {
	paths     domain.ArtworkPaths
	expiresAt time.Time
}

// Memory is a bounded TTL store. When full, Set evicts the entry closest to expiry.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	capacity int
	now      func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{
		entries:  make(map[string]memoryEntry),
		capacity: capacity,
		now:      time.Now,
	}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(_ context.Context, externalID string) (domain.ArtworkPaths, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[externalID]
	if !ok {
		return domain.ArtworkPaths{}, false, nil
	}
	if m.expired(e) {
		delete(m.entries, externalID)
		m.updateGauge()
		metrics.ArtworkCacheEvictions.WithLabelValues("expired").Inc()
		return domain.ArtworkPaths{}, false, nil
	}
	return e.paths, true, nil
}

func (m *Memory) Set(_ context.Context, externalID string, paths domain.ArtworkPaths, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[externalID]; !exists && len(m.entries) >= m.capacity {
		m.sweepLocked()
		if len(m.entries) >= m.capacity {
			m.evictOldestLocked()
		}
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.entries[externalID] = memoryEntry{paths: paths, expiresAt: expiresAt}
	m.updateGauge()
	return nil
}

// Sweep removes expired entries and returns how many it removed
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.sweepLocked()
	m.updateGauge()
	return n
}

// Len returns the number of entries, expired or not
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }

func (m *Memory) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *Memory) sweepLocked() int {
	removed := 0
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.ArtworkCacheEvictions.WithLabelValues("expired").Add(float64(removed))
	}
	return removed
}

func (m *Memory) evictOldestLocked() {
	var (
		victim string
		oldest memoryEntry
		found  bool
	)
	for id, e := range m.entries {
		if !found || expiresBefore(e, oldest) {
			victim, oldest, found = id, e, true
		}
	}
	if found {
		delete(m.entries, victim)
		metrics.ArtworkCacheEvictions.WithLabelValues("capacity").Inc()
	}
}

// expiresBefore orders entries by expiry, with non-expiring entries last
func expiresBefore(a, b memoryEntry) bool {
	switch {
	case a.expiresAt.IsZero():
		return false
	case b.expiresAt.IsZero():
		return true
	default:
		return a.expiresAt.Before(b.expiresAt)
	}
}

func (m *Memory) updateGauge() {
	metrics.ArtworkCacheEntries.Set(float64(len(m.entries)))
}
