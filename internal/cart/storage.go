package cart

import (
	"sync"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Storage is the session-scoped key-value slot a cart persists into.
// Get returns (nil, nil) when the key holds nothing.
type Storage interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// MemoryStorage is a map-backed Storage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[key], nil
}

func (m *MemoryStorage) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := make([]byte, len(value))
	copy(data, value)
	m.slots[key] = data
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

var cartBucket = []byte("carts")

// BoltStorage keeps session slots in a local bbolt file so carts survive
// a server restart.
type BoltStorage struct {
	db *bolt.DB
}

func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open cart storage")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init cart storage")
	}
	return &BoltStorage{db: db}, nil
}

func (b *BoltStorage) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(cartBucket).Get([]byte(key)); data != nil {
			value = make([]byte, len(data))
			copy(value, data)
		}
		return nil
	})
	return value, err
}

func (b *BoltStorage) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(key), value)
	})
}

func (b *BoltStorage) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(key))
	})
}

func (b *BoltStorage) Close() error {
	return b.db.Close()
}
