package progress

import (
	"context"
	"sort"
)

// MemoryKV is a KV that lives only as long as the process.
type MemoryKV struct {
	values map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

// Delete removes keys.
func (m *MemoryKV) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

// Keys lists stored keys in lexical order.
func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
