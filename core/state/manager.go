package state

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

// Manager provides typed access to the key-value state visible inside a
// single storage transaction. A Manager must not outlive the transaction it
// was created for.
type Manager struct {
	tx storage.Tx
}

// NewManager creates a state manager operating on the provided transaction.
func NewManager(tx storage.Tx) *Manager {
	return &Manager{tx: tx}
}

// KVPut stores the provided value under the supplied key using RLP encoding.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.tx.Put(key, encoded)
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	data, err := m.tx.Get(key)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVDelete removes the key. Deleting an absent key is not an error.
func (m *Manager) KVDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	return m.tx.Delete(key)
}

// KVIterate visits every key under prefix in ascending byte order. decode
// decodes the raw RLP payload of the current entry into out.
func (m *Manager) KVIterate(prefix []byte, fn func(key []byte, decode func(out interface{}) error) error) error {
	if len(prefix) == 0 {
		return fmt.Errorf("kv: prefix must not be empty")
	}
	return m.tx.Iterate(prefix, func(key, value []byte) error {
		return fn(key, func(out interface{}) error {
			return rlp.DecodeBytes(value, out)
		})
	})
}

// NextSequence increments and returns the named counter. The first value
// returned for a fresh counter is 1.
func (m *Manager) NextSequence(name string) (uint64, error) {
	key := sequenceKey(name)
	var current uint64
	if _, err := m.KVGet(key, &current); err != nil {
		return 0, err
	}
	if current == math.MaxUint64 {
		return 0, fmt.Errorf("kv: sequence %s overflow", name)
	}
	current++
	if err := m.KVPut(key, current); err != nil {
		return 0, err
	}
	return current, nil
}

// Sequence returns the last value handed out by NextSequence.
func (m *Manager) Sequence(name string) (uint64, error) {
	var current uint64
	if _, err := m.KVGet(sequenceKey(name), &current); err != nil {
		return 0, err
	}
	return current, nil
}

// ModuleAdmin loads the administrative account configured for module.
func (m *Manager) ModuleAdmin(module string) ([20]byte, bool, error) {
	var admin [20]byte
	ok, err := m.KVGet(moduleAdminKey(module), &admin)
	if err != nil {
		return [20]byte{}, false, err
	}
	return admin, ok, nil
}

// SetModuleAdmin persists the administrative account for module.
func (m *Manager) SetModuleAdmin(module string, admin [20]byte) error {
	return m.KVPut(moduleAdminKey(module), admin)
}

// IsPaused reports whether the module's mutating entry points are disabled.
// Lookup failures are treated as paused so a corrupt flag never opens the
// module.
func (m *Manager) IsPaused(module string) bool {
	var paused bool
	if _, err := m.KVGet(modulePausedKey(module), &paused); err != nil {
		return true
	}
	return paused
}

// SetPaused toggles the module pause flag.
func (m *Manager) SetPaused(module string, paused bool) error {
	return m.KVPut(modulePausedKey(module), paused)
}

// Uint64Key appends the big-endian encoding of id to prefix so ids iterate in
// numeric order.
func Uint64Key(prefix []byte, id uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], id)
	return key
}
