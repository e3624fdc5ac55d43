package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryKV keeps entries in process memory. Used for tests and ephemeral runs.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]Entry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(key); err != nil {
		return "", false, err
	}
	e, ok := m.entries[key]
	return e.Value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(key); err != nil {
		return err
	}
	m.entries[key] = Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(key); err != nil {
		return err
	}
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemoryKV) check(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if m.closed {
		return ErrClosed
	}
	return nil
}
