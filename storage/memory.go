package storage

import "sync"

// MemStore is an in-memory Store. A non-zero Quota caps the total byte
// size of all values, mimicking browser storage limits; writes past the
// cap fail with ErrQuotaExceeded. Safe for concurrent use.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
	quota  int
}

// NewMemStore returns an empty unbounded store.
func NewMemStore() *MemStore {
	return &MemStore{values: map[string]string{}}
}

// NewMemStoreWithQuota returns a store capped at quota total value bytes.
func NewMemStoreWithQuota(quota int) *MemStore {
	return &MemStore{values: map[string]string{}, quota: quota}
}

// Get implements Store.
func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		total := len(value)
		for k, v := range m.values {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.quota {
			return ErrQuotaExceeded
		}
	}
	m.values[key] = value
	return nil
}

// Delete implements Store.
func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
