package storage

import (
	"bytes"
	"sort"
	"strings"
	"sync"
)

// MemTx is a map-backed Tx that never commits or rolls back. Unit tests use it
// to drive engines directly without opening a Database.
type MemTx struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemTx returns an empty map-backed transaction.
func NewMemTx() *MemTx {
	return &MemTx{data: make(map[string][]byte)}
}

func (m *MemTx) Get(key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (m *MemTx) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemTx) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *MemTx) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.Lock()
	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = append([]byte(nil), m.data[k]...)
	}
	m.mu.Unlock()
	for i, k := range keys {
		if err := fn(bytes.Clone([]byte(k)), values[i]); err != nil {
			return err
		}
	}
	return nil
}
