package storage

import (
	"errors"
	"fmt"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/yumyum-02/scraping/pkg/log"
	"github.com/yumyum-02/scraping/pkg/utils"
)

const (
	visitedKeyPrefix = "visited:"
	memTableSize     = 8 << 20
	// maxConflictRetries bounds the retry loop around conflicting transactions
	maxConflictRetries = 10
)

// BadgerVisitedSet implements VisitedSet with an in-memory BadgerDB instance.
// Nothing is written to disk; the database disappears on Close.
type BadgerVisitedSet struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount atomic.Int64
}

// NewBadgerVisitedSet opens an empty in-memory database
func NewBadgerVisitedSet(logger *logrus.Entry) (*BadgerVisitedSet, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(log.NewBadgerAdapter(logger)).
		WithNumVersionsToKeep(1).
		WithMemTableSize(memTableSize)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening in-memory badger database: %w", utils.ErrDatabase, err)
	}
	logger.Debug("In-memory visited set initialized.")
	return &BadgerVisitedSet{db: db, log: logger}, nil
}

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
func (s *BadgerVisitedSet) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := range maxConflictRetries {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

// MarkVisited implements the VisitedSet interface
func (s *BadgerVisitedSet) MarkVisited(rawURL string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("%w: visited set closed", utils.ErrDatabase)
	}
	added := false
	key := []byte(visitedKeyPrefix + rawURL)

	err := s.dbUpdate(func(txn *badger.Txn) error {
		added = false
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			if errSet := txn.SetEntry(badger.NewEntry(key, []byte{})); errSet != nil {
				return errSet
			}
			added = true
			return nil
		}
		return errGet // nil if the key already exists
	})
	if err != nil {
		return false, fmt.Errorf("%w: marking '%s' visited: %w", utils.ErrDatabase, rawURL, err)
	}
	if added {
		s.keyCount.Add(1)
	}
	return added, nil
}

// Count implements the VisitedSet interface
func (s *BadgerVisitedSet) Count() (int, error) {
	return int(s.keyCount.Load()), nil
}

// Close implements the VisitedSet interface
func (s *BadgerVisitedSet) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("%w: closing in-memory badger database: %w", utils.ErrDatabase, err)
	}
	return nil
}
