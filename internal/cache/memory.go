package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prudentjag/inventory-pos/domain"
)

const memoryTTL = 5 * time.Minute

type memoryEntry struct {
	items     []domain.InventoryItem
	expiresAt time.Time
}

// MemoryCache is the cacheless-deployment fallback: same contract as the
// redis cache, scoped to one process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[int64]memoryEntry)}
}

func (m *MemoryCache) Get(_ context.Context, unitID int64) ([]domain.InventoryItem, error) {
	m.mu.RLock()
	entry, ok := m.entries[unitID]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	items := make([]domain.InventoryItem, len(entry.items))
	copy(items, entry.items)
	return items, nil
}

func (m *MemoryCache) Set(_ context.Context, unitID int64, items []domain.InventoryItem) error {
	stored := make([]domain.InventoryItem, len(items))
	copy(stored, items)
	m.mu.Lock()
	m.entries[unitID] = memoryEntry{items: stored, expiresAt: time.Now().Add(memoryTTL)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, unitID int64) error {
	m.mu.Lock()
	delete(m.entries, unitID)
	m.mu.Unlock()
	return nil
}
