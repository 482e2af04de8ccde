// Package viewcache provides the in-memory layer in front of the record
// store: resolution views cached with a fixed absolute lifetime that is
// independent of the record's own TTL. A bounded LRU keeps memory use
// predictable; a Redis-backed variant shares the tier across processes.
package viewcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tvaz/domainfo/internal/domainfo/domain"
	"github.com/tvaz/domainfo/internal/domainfo/services/lookup"
)

// Memory is an expiring LRU cache of resolution views.
type Memory struct {
	lru *expirable.LRU[string, domain.View]
}

// NewMemory returns a view cache holding at most size entries, each
// expiring ttl after insertion.
func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, domain.View](size, nil, ttl),
	}
}

func (m *Memory) Get(key string) (domain.View, bool) {
	return m.lru.Get(key)
}

func (m *Memory) Set(key string, view domain.View) {
	m.lru.Add(key, view)
}

func (m *Memory) Remove(key string) {
	m.lru.Remove(key)
}

// Len returns the number of cached views.
func (m *Memory) Len() int {
	return m.lru.Len()
}

var _ lookup.ViewCache = (*Memory)(nil)
