// Package domainstore persists resolution records in a bbolt database,
// one bucket keyed by lowercased domain name. Writes are staged in memory
// and flushed in a single transaction on Commit, so a request abandoned
// mid-flight never leaves a partial record behind.
package domainstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/tvaz/domainfo/internal/domainfo/domain"
	"github.com/tvaz/domainfo/internal/domainfo/services/lookup"
)

var bucketDomains = []byte("domains")

// BoltStore implements lookup.Store using bbolt.
type BoltStore struct {
	db *bbolt.DB

	mu      sync.Mutex
	pending []*domain.Record
}

// New opens (or creates) a Bolt database at path and ensures the domains
// bucket exists.
func New(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening domain store: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDomains)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating domains bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

// GetByName returns the committed record for the given name, or nil when
// none exists. Staged but uncommitted records are not visible.
func (s *BoltStore) GetByName(name string) (*domain.Record, error) {
	var rec *domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDomains)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(name))
		if v == nil {
			return nil
		}
		var decoded domain.Record
		if err := json.Unmarshal(v, &decoded); err != nil {
			return fmt.Errorf("decoding record %q: %w", name, err)
		}
		rec = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Add stages a new record for the next Commit. The surrogate ID is
// assigned at commit time.
func (s *BoltStore) Add(rec *domain.Record) {
	s.stage(rec)
}

// Update stages an existing record for the next Commit. The record keeps
// its ID and overwrites the stored value under the same key.
func (s *BoltStore) Update(rec *domain.Record) {
	s.stage(rec)
}

func (s *BoltStore) stage(rec *domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, rec)
}

// Commit flushes all staged records in one transaction. New records get
// their ID from the bucket sequence. A Commit with nothing staged is a
// no-op.
func (s *BoltStore) Commit() error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDomains)
		for _, rec := range pending {
			if rec.ID == 0 {
				seq, err := b.NextSequence()
				if err != nil {
					return fmt.Errorf("assigning record id: %w", err)
				}
				rec.ID = seq
			}
			buf, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encoding record %q: %w", rec.Name, err)
			}
			if err := b.Put([]byte(rec.Name), buf); err != nil {
				return fmt.Errorf("writing record %q: %w", rec.Name, err)
			}
		}
		return nil
	})
}

var _ lookup.Store = (*BoltStore)(nil)
