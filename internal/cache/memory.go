package cache

import "sync"

// MemoryKV is an in-process KV, mainly for tests.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string]string
	writes int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Read(namespace string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[namespace]
	return v, ok, nil
}

func (m *MemoryKV) Write(namespace, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[namespace] = value
	m.writes++
	return nil
}

// Writes returns how many writes have been made.
func (m *MemoryKV) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
