package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	bolt "go.etcd.io/bbolt"
)

// ErrReadOnly is returned when a write is attempted inside View.
var ErrReadOnly = errors.New("storage: read-only transaction")

// Tx is a single unit of work against the key-value store. Get returns a nil
// slice without error when the key is absent. Iterate visits keys sharing the
// prefix in ascending order; the callback must not write through the same Tx.
type Tx interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}

// Database is a transactional key-value store. Every write performed inside an
// Update callback is discarded when the callback returns an error, so a
// callback is an all-or-nothing unit.
type Database interface {
	Update(fn func(Tx) error) error
	View(fn func(Tx) error) error
	Close() error
}

// Open creates or opens the backend identified by name ("bolt" or "leveldb")
// underneath dir.
func Open(backend, dir string) (Database, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "bolt", "bbolt":
		return NewBoltDB(filepath.Join(dir, "state.db"))
	case "leveldb":
		return NewLevelDB(filepath.Join(dir, "state"))
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", backend)
	}
}

// --- BoltDB (default on-disk backend) ---

var stateBucket = []byte("state")

// BoltDB stores all keys in a single bucket of a bbolt file.
type BoltDB struct {
	db *bolt.DB
}

// NewBoltDB opens (or creates) the bbolt file at path.
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltDB{db: db}, nil
}

func (b *BoltDB) Update(fn func(Tx) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return fn(boltTx{bucket: tx.Bucket(stateBucket)})
	})
}

func (b *BoltDB) View(fn func(Tx) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return fn(boltTx{bucket: tx.Bucket(stateBucket), readOnly: true})
	})
}

func (b *BoltDB) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

type boltTx struct {
	bucket   *bolt.Bucket
	readOnly bool
}

func (t boltTx) Get(key []byte) ([]byte, error) {
	value := t.bucket.Get(key)
	if value == nil {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (t boltTx) Put(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	return t.bucket.Put(append([]byte(nil), key...), append([]byte(nil), value...))
}

func (t boltTx) Delete(key []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	return t.bucket.Delete(key)
}

func (t boltTx) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	c := t.bucket.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(append([]byte(nil), k...), append([]byte(nil), v...)); err != nil {
			return err
		}
	}
	return nil
}

// --- LevelDB ---

// LevelDB is a persistent key-value store using LevelDB transactions.
type LevelDB struct {
	mu sync.Mutex
	db *leveldb.DB
}

// NewLevelDB creates or opens a LevelDB database at the specified path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// NewMemDB returns a LevelDB instance backed by memory. Intended for tests.
func NewMemDB() *LevelDB {
	db, err := leveldb.Open(lvlstorage.NewMemStorage(), nil)
	if err != nil {
		panic(fmt.Sprintf("storage: open memory leveldb: %v", err))
	}
	return &LevelDB{db: db}
}

func (l *LevelDB) Update(fn func(Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tr, err := l.db.OpenTransaction()
	if err != nil {
		return err
	}
	if err := fn(levelTx{tr: tr}); err != nil {
		tr.Discard()
		return err
	}
	return tr.Commit()
}

func (l *LevelDB) View(fn func(Tx) error) error {
	snap, err := l.db.GetSnapshot()
	if err != nil {
		return err
	}
	defer snap.Release()
	return fn(levelSnapshot{snap: snap})
}

func (l *LevelDB) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

type levelTx struct {
	tr *leveldb.Transaction
}

func (t levelTx) Get(key []byte) ([]byte, error) {
	value, err := t.tr.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

func (t levelTx) Put(key, value []byte) error { return t.tr.Put(key, value, nil) }

func (t levelTx) Delete(key []byte) error { return t.tr.Delete(key, nil) }

func (t levelTx) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := t.tr.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		if err := fn(append([]byte(nil), it.Key()...), append([]byte(nil), it.Value()...)); err != nil {
			return err
		}
	}
	return it.Error()
}

type levelSnapshot struct {
	snap *leveldb.Snapshot
}

func (s levelSnapshot) Get(key []byte) ([]byte, error) {
	value, err := s.snap.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

func (levelSnapshot) Put([]byte, []byte) error { return ErrReadOnly }

func (levelSnapshot) Delete([]byte) error { return ErrReadOnly }

func (s levelSnapshot) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := s.snap.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		if err := fn(append([]byte(nil), it.Key()...), append([]byte(nil), it.Value()...)); err != nil {
			return err
		}
	}
	return it.Error()
}
