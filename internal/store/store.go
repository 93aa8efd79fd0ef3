package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/waypoint/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketProgress = []byte("progress")
)

// DatabaseFile is the bbolt file name inside the data directory.
const DatabaseFile = "waypoint.db"

// BoltBacking implements domain.Backing with a single key in a BoltDB bucket.
type BoltBacking struct {
	db  *bolt.DB
	key []byte

	mu   sync.RWMutex // Protects mem in memory-only mode
	mem  []byte
	path string
}

// Open opens (or creates) the progress database in dir.
// An empty dir selects memory-only mode: nothing touches the disk.
func Open(dir string) (*BoltBacking, error) {
	b := &BoltBacking{key: []byte(domain.ProgressDocumentKey)}
	if dir == "" {
		return b, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dir, DatabaseFile)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketProgress)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	b.db = db
	b.path = dbPath
	return b, nil
}

// Path returns the database file path, or "" in memory-only mode.
func (b *BoltBacking) Path() string {
	return b.path
}

// Persistent reports whether writes reach the disk.
func (b *BoltBacking) Persistent() bool {
	return b.db != nil
}

// Load returns the stored document, or nil if none has been written.
func (b *BoltBacking) Load() ([]byte, error) {
	if b.db == nil {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return cloneBytes(b.mem), nil
	}

	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketProgress)
		if bucket == nil {
			return nil
		}
		// Values are only valid for the life of the transaction.
		data = cloneBytes(bucket.Get(b.key))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read progress document: %w", err)
	}
	return data, nil
}

// Save replaces the stored document.
func (b *BoltBacking) Save(data []byte) error {
	if b.db == nil {
		b.mu.Lock()
		b.mem = cloneBytes(data)
		b.mu.Unlock()
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketProgress)
		if err != nil {
			return err
		}
		return bucket.Put(b.key, data)
	})
}

// Clear removes the stored document. This is a whole-document replacement
// done outside the progress store, e.g. by the reset command.
func (b *BoltBacking) Clear() error {
	if b.db == nil {
		b.mu.Lock()
		b.mem = nil
		b.mu.Unlock()
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketProgress)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(b.key)
	})
}

// Close releases the database file.
func (b *BoltBacking) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// ErrInjected is the default failure returned by MemoryBacking when a
// failure is armed without an explicit error.
var ErrInjected = errors.New("backing store failure")

// MemoryBacking is an in-memory domain.Backing that records every write.
// Failures can be armed to simulate a full or broken medium.
type MemoryBacking struct {
	mu        sync.Mutex
	data      []byte
	writes    [][]byte
	loadErr   error
	saveErr   error
	saveCalls int
}

// NewMemoryBacking creates a backing pre-seeded with data (may be nil).
func NewMemoryBacking(data []byte) *MemoryBacking {
	return &MemoryBacking{data: cloneBytes(data)}
}

// Load returns the current document or the armed load error.
func (m *MemoryBacking) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return cloneBytes(m.data), nil
}

// Save stores data unless a save failure is armed.
func (m *MemoryBacking) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = cloneBytes(data)
	m.writes = append(m.writes, cloneBytes(data))
	return nil
}

// FailLoads makes Load return err (ErrInjected if err is nil).
func (m *MemoryBacking) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	m.loadErr = err
}

// FailSaves makes Save return err (ErrInjected if err is nil) until
// RecoverSaves is called.
func (m *MemoryBacking) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	m.saveErr = err
}

// RecoverSaves disarms save failures.
func (m *MemoryBacking) RecoverSaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = nil
}

// Writes returns every successfully written document in order.
func (m *MemoryBacking) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// SaveCalls counts Save invocations, including failed ones.
func (m *MemoryBacking) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
