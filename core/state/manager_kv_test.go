package state

import (
	"testing"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

type sampleRecord struct {
	ID     uint64
	Owner  [20]byte
	Note   string
	Active bool
}

func withManager(t *testing.T, db storage.Database, fn func(*Manager) error) {
	t.Helper()
	if err := db.Update(func(tx storage.Tx) error { return fn(NewManager(tx)) }); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestKVRoundTripAndDelete(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(func() { _ = db.Close() })

	key := []byte("sample/1")
	want := sampleRecord{ID: 1, Owner: [20]byte{0x01}, Note: "hello", Active: true}
	withManager(t, db, func(m *Manager) error { return m.KVPut(key, &want) })

	withManager(t, db, func(m *Manager) error {
		var got sampleRecord
		ok, err := m.KVGet(key, &got)
		if err != nil {
			return err
		}
		if !ok {
			t.Fatalf("expected record to exist")
		}
		if got != want {
			t.Fatalf("unexpected record: %+v", got)
		}
		return m.KVDelete(key)
	})

	withManager(t, db, func(m *Manager) error {
		ok, err := m.KVGet(key, nil)
		if err != nil {
			return err
		}
		if ok {
			t.Fatalf("expected record to be deleted")
		}
		return nil
	})
}

func TestKVIterateOrdersNumericKeys(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(func() { _ = db.Close() })
	prefix := []byte("sample/")

	withManager(t, db, func(m *Manager) error {
		for _, id := range []uint64{300, 2, 17} {
			if err := m.KVPut(Uint64Key(prefix, id), &sampleRecord{ID: id}); err != nil {
				return err
			}
		}
		return nil
	})

	var ids []uint64
	withManager(t, db, func(m *Manager) error {
		return m.KVIterate(prefix, func(_ []byte, decode func(interface{}) error) error {
			var rec sampleRecord
			if err := decode(&rec); err != nil {
				return err
			}
			ids = append(ids, rec.ID)
			return nil
		})
	})
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 17 || ids[2] != 300 {
		t.Fatalf("unexpected iteration order: %v", ids)
	}
}

func TestNextSequenceIsMonotonic(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(func() { _ = db.Close() })

	withManager(t, db, func(m *Manager) error {
		for want := uint64(1); want <= 3; want++ {
			got, err := m.NextSequence("booking")
			if err != nil {
				return err
			}
			if got != want {
				t.Fatalf("expected sequence %d, got %d", want, got)
			}
		}
		other, err := m.NextSequence("offer")
		if err != nil {
			return err
		}
		if other != 1 {
			t.Fatalf("expected independent counters, got %d", other)
		}
		last, err := m.Sequence("booking")
		if err != nil {
			return err
		}
		if last != 3 {
			t.Fatalf("expected last booking sequence 3, got %d", last)
		}
		return nil
	})
}

func TestModuleParams(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(func() { _ = db.Close() })

	admin := [20]byte{0xAD}
	withManager(t, db, func(m *Manager) error {
		if _, ok, err := m.ModuleAdmin("booking"); err != nil || ok {
			t.Fatalf("expected no admin, ok=%v err=%v", ok, err)
		}
		if m.IsPaused("booking") {
			t.Fatalf("fresh module must not be paused")
		}
		if err := m.SetModuleAdmin("booking", admin); err != nil {
			return err
		}
		return m.SetPaused("booking", true)
	})
	withManager(t, db, func(m *Manager) error {
		got, ok, err := m.ModuleAdmin("booking")
		if err != nil {
			return err
		}
		if !ok || got != admin {
			t.Fatalf("unexpected admin %x ok=%v", got, ok)
		}
		if !m.IsPaused("booking") {
			t.Fatalf("expected module to be paused")
		}
		if m.IsPaused("verification") {
			t.Fatalf("pause flags must be per module")
		}
		return nil
	})
}
