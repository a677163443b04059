// Package badger implements db.KVStore on an embedded BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/db"
)

var (
	_ db.Pinger  = (*Store)(nil)
	_ db.KVStore = (*Store)(nil)
)

// Store wraps a BadgerDB instance.
type Store struct {
	db *badger.DB
}

// zapAdapter routes badger's internal logging through zap.
type zapAdapter struct {
	log *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, items ...any)   { a.log.Errorf(msg, items...) }
func (a *zapAdapter) Warningf(msg string, items ...any) { a.log.Warnf(msg, items...) }
func (a *zapAdapter) Infof(msg string, items ...any)    { a.log.Debugf(msg, items...) }
func (a *zapAdapter) Debugf(msg string, items ...any)   { a.log.Debugf(msg, items...) }

// Open opens a BadgerDB at path. An empty path opens an in-memory database.
func Open(path string, log *zap.Logger) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts.Logger = &zapAdapter{log: log.Named("badger").Sugar()}
	opts.Compression = options.None

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports an error once the database has been closed.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return &db.Error{Op: db.OpPing, Err: errors.New("badger is closed")}
	}
	return nil
}

// Get retrieves a value by key. Expired entries are reported as missing.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return out, nil
}

// SetWithTTL stores a value with an expiration. ttl <= 0 stores without expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}
