// Package insight caches per-clause analyses fetched from the service.
//
// Entries are keyed by the session's contract id and a hash of the clause
// text, so a clause is fetched at most once per session even though its
// positional id is not stable.
package insight

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Iron-Ham/contractlens/internal/contract"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 128

// Key identifies a cached insight.
type Key struct {
	ContractID string
	TextHash   uint64
}

// KeyFor builds the cache key for a clause of the given session.
func KeyFor(contractID, clauseText string) Key {
	return Key{ContractID: contractID, TextHash: xxhash.Sum64String(clauseText)}
}

// String renders the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("%s/%016x", k.ContractID, k.TextHash)
}

// Cache is a bounded, concurrency-safe insight cache.
type Cache struct {
	entries *lru.Cache[Key, *contract.ClauseInsight]
}

// NewCache creates a cache holding up to size insights.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, *contract.ClauseInsight](size)
	if err != nil {
		return nil, fmt.Errorf("create insight cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached insight for key.
func (c *Cache) Get(key Key) (*contract.ClauseInsight, bool) {
	return c.entries.Get(key)
}

// Put stores an insight.
func (c *Cache) Put(key Key, ci *contract.ClauseInsight) {
	if ci == nil {
		return
	}
	c.entries.Add(key, ci)
}

// Len returns the number of cached insights.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every entry. Called whenever the session is cleared.
func (c *Cache) Purge() {
	c.entries.Purge()
}
