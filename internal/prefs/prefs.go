// Package prefs persists small string preferences, such as the last used
// model, in an embedded badger database.
package prefs

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"pocketchat/internal/common/fsutil"
)

// LastUsedModelKey holds the filename of the last successfully downloaded artifact.
const LastUsedModelKey = "last_used_model"

// Config configures a Store.
type Config struct {
	// Dir holds the badger files. Ignored when InMemory is set.
	Dir string
	// InMemory keeps everything in RAM; used by tests.
	InMemory bool
	// Logger receives badger's internal warnings and errors. Nop disables them.
	Logger zerolog.Logger
}

// Store is a durable string key-value store.
type Store struct {
	db *badger.DB
}

// Open opens the preference database described by cfg.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir, err := fsutil.ResolveDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(&badgerLogger{log: cfg.Logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		b, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(b)
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	}); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error { return s.db.Close() }

// badgerLogger adapts zerolog to badger's Logger interface. Info and debug
// chatter is dropped.
type badgerLogger struct{ log zerolog.Logger }

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(string, ...interface{})  {}
func (l *badgerLogger) Debugf(string, ...interface{}) {}
