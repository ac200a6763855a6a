package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when inserting a document whose id already exists.
	ErrConflict = errors.New("document already exists")
)

// Key prefixes. Documents are stored as JSON values under typed keys so a
// prefix scan walks exactly one collection.
const (
	msgPrefix   = "msg:"
	pushPrefix  = "push:"
	vocabPrefix = "vocab:"
)

// Store is the persistent document store backing the chat relay and the
// vocabulary collections. All writes are single-document atomic.
type Store struct {
	db  *badger.DB
	log *zap.Logger
}

// Open opens (or creates) the store at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC reclaims space from the value log. Called periodically by the
// compaction worker; ErrNoRewrite just means there was nothing to collect.
func (s *Store) RunGC() error {
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
