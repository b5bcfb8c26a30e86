// Package localcache is the guest-mode persistence tier: a BadgerDB
// key-value store holding full-snapshot JSON blobs keyed by logical name
// (tasks, records, pacts, notes, preferences, unlocks). Every guest
// mutation rewrites the whole blob for the sub-tree that changed.
package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Logical snapshot keys.
const (
	KeyTasks       = "tasks"
	KeyRecords     = "records"
	KeyPacts       = "pacts"
	KeyNotes       = "notes"
	KeyPreferences = "preferences"
	KeyUnlocks     = "unlocks"
)

// Config holds cache open options.
type Config struct {
	// Path is the directory for the cache files. Ignored when InMemory.
	Path string
	// InMemory skips disk persistence, for tests.
	InMemory bool
	// SyncWrites makes each write durable before returning.
	SyncWrites bool
	// Logger receives badger's internal logging; nil silences it.
	Logger *slog.Logger
}

// DefaultConfig returns durable settings for a real guest session.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a throwaway cache for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog onto badger's Logger interface.
type badgerLogger struct {
	log *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

// Cache is a thin JSON-blob view over a badger store.
type Cache struct {
	db *badger.DB
}

// Open creates the cache directory if needed and opens the store.
func Open(cfg Config) (*Cache, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("cache path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{log: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Put serializes v and writes it under key, replacing the prior snapshot.
func (c *Cache) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", key, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write %s snapshot: %w", key, err)
	}
	return nil
}

// Get reads the snapshot under key into out. Returns false when the key
// has never been written.
func (c *Cache) Get(key string, out any) (bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s snapshot: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s snapshot: %w", key, err)
	}
	return true, nil
}

// Delete removes a snapshot.
func (c *Cache) Delete(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s snapshot: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
