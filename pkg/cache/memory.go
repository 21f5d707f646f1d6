package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Memory is an in-process Cache with TTL expiry and a janitor goroutine.
// Connectivity is a settable flag so tests and the offline-degraded mode
// can flip it explicitly.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	online  bool
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemory creates a Memory cache that reports online until told
// otherwise.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]*memoryEntry),
		online:  true,
	}

	go m.janitor()

	return m
}

// Make sure we conform to the interface
var _ Cache = (*Memory)(nil)

// Put stores value under key with the given TTL.
func (m *Memory) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.entries[key] = &memoryEntry{
		entry:     Entry{Value: raw, Timestamp: now},
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Get unmarshals the cached value for key into dest.
func (m *Memory) Get(ctx context.Context, key string, dest any) (bool, error) {
	entry, err := m.GetEntry(ctx, key)
	if err != nil || entry == nil {
		return false, err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return false, err
	}
	return true, nil
}

// GetEntry returns the raw cached entry, or nil when absent or expired.
func (m *Memory) GetEntry(ctx context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	// Expired entries are left for the janitor.
	if time.Now().After(stored.expiresAt) {
		return nil, nil
	}

	entry := stored.entry
	return &entry, nil
}

// Online reports the connectivity flag.
func (m *Memory) Online(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline flips the connectivity flag.
func (m *Memory) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = online
}

// janitor removes expired entries periodically.
func (m *Memory) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for key, stored := range m.entries {
			if now.After(stored.expiresAt) {
				delete(m.entries, key)
			}
		}
		m.mu.Unlock()
	}
}
