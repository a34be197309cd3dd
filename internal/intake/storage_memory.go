package intake

import (
	"context"
	"errors"
	"sync"
)

// ErrStorageUnavailable simulates a full or disabled medium.
var ErrStorageUnavailable = errors.New("intake: storage unavailable")

// MemoryStorage keeps drafts in process memory.
type MemoryStorage struct {
	mu         sync.RWMutex
	values     map[string][]byte
	failWrites bool
}

// NewMemoryStorage creates an empty in-memory medium.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

// FailWrites makes every Set return ErrStorageUnavailable.
func (m *MemoryStorage) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrStorageMiss
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrStorageUnavailable
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
