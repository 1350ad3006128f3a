package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// Memory is the in-process Store. Writes are atomic map inserts under a mutex;
// nothing evicts in the background, staleness is judged at read time only.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string, maxAge time.Duration, dest interface{}) error {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if maxAge > 0 && m.now().Sub(e.Timestamp) > maxAge {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(e.Data, dest)
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = entry{Data: data, Timestamp: m.now()}
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
