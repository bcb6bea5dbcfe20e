package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"nerdpad/internal/logging"
)

// bucketState is the single bucket holding all nerdpad keys.
const bucketState = "state"

// BoltStore is a bbolt-backed Store. One file, one bucket.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the key-value database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize key-value store: %w", err)
	}

	logging.KV("Opened key-value store at %s", path)
	return &BoltStore{db: db}, nil
}

// Get returns the value for key, or ErrNoKey when absent.
func (s *BoltStore) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNoKey
		}
		value = string(v)
		return nil
	})
	return value, err
}

// Set writes the value for key.
func (s *BoltStore) Set(key, value string) error {
	logging.KVDebug("Set %s (%d bytes)", key, len(value))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.Put([]byte(key), []byte(value))
	})
}

// Delete removes key.
func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.Delete([]byte(key))
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
