package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Store for hosts that do not need sessions to
// outlive the process.
type Memory struct {
	lock    sync.RWMutex
	entries map[string]memoryEntry
	nowFunc func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		nowFunc: time.Now,
	}
}

func (m *Memory) Set(_ context.Context, key, value string, exp time.Duration) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	entry := memoryEntry{value: value}
	if exp > 0 {
		entry.expiresAt = m.nowFunc().Add(exp)
	}
	m.entries[key] = entry
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.lock.RLock()
	entry, ok := m.entries[key]
	m.lock.RUnlock()

	if !ok {
		return "", ErrKeyNotFound
	}
	if !entry.expiresAt.IsZero() && m.nowFunc().After(entry.expiresAt) {
		m.lock.Lock()
		delete(m.entries, key)
		m.lock.Unlock()
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.entries, key)
	return nil
}
