package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Database {
	t.Helper()
	bolt, err := NewBoltDB(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	level, err := NewLevelDB(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	mem := NewMemDB()
	t.Cleanup(func() {
		_ = bolt.Close()
		_ = level.Close()
		_ = mem.Close()
	})
	return map[string]Database{"bolt": bolt, "leveldb": level, "memory": mem}
}

func TestUpdateCommitsAndViewReads(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Update(func(tx Tx) error {
				return tx.Put([]byte("k"), []byte("v"))
			}))
			require.NoError(t, db.View(func(tx Tx) error {
				value, err := tx.Get([]byte("k"))
				require.NoError(t, err)
				require.Equal(t, []byte("v"), value)
				missing, err := tx.Get([]byte("absent"))
				require.NoError(t, err)
				require.Nil(t, missing)
				return nil
			}))
		})
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	boom := errors.New("boom")
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Update(func(tx Tx) error {
				return tx.Put([]byte("balance"), []byte("10"))
			}))
			err := db.Update(func(tx Tx) error {
				if err := tx.Put([]byte("balance"), []byte("0")); err != nil {
					return err
				}
				if err := tx.Put([]byte("other"), []byte("x")); err != nil {
					return err
				}
				value, err := tx.Get([]byte("balance"))
				require.NoError(t, err)
				require.Equal(t, []byte("0"), value, "writes are visible inside the transaction")
				return boom
			})
			require.ErrorIs(t, err, boom)
			require.NoError(t, db.View(func(tx Tx) error {
				value, err := tx.Get([]byte("balance"))
				require.NoError(t, err)
				require.Equal(t, []byte("10"), value)
				other, err := tx.Get([]byte("other"))
				require.NoError(t, err)
				require.Nil(t, other)
				return nil
			}))
		})
	}
}

func TestIteratePrefixAndDelete(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Update(func(tx Tx) error {
				for _, key := range []string{"a/2", "a/1", "b/1", "a/3"} {
					if err := tx.Put([]byte(key), []byte(key)); err != nil {
						return err
					}
				}
				return tx.Delete([]byte("a/3"))
			}))
			var seen []string
			require.NoError(t, db.View(func(tx Tx) error {
				return tx.Iterate([]byte("a/"), func(key, _ []byte) error {
					seen = append(seen, string(key))
					return nil
				})
			}))
			require.Equal(t, []string{"a/1", "a/2"}, seen)
		})
	}
}

func TestViewRejectsWrites(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := db.View(func(tx Tx) error {
				return tx.Put([]byte("k"), []byte("v"))
			})
			require.ErrorIs(t, err, ErrReadOnly)
		})
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open("rocksdb", t.TempDir())
	require.Error(t, err)
}
