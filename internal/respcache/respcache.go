// Package respcache memoizes the HTTP layer's (variant, fen, filter) ->
// JSON response bodies behind a bounded, TTL-expiring cache (spec
// §4.8). The query engine itself stays pure; this package is the only
// stateful thing sitting in front of it.
package respcache

import (
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL and DefaultMaxEntries are spec §4.8's defaults.
const (
	DefaultTTL        = 10 * time.Minute
	DefaultMaxEntries = 10_000
)

// Cache wraps an expirable LRU keyed by an opaque string the caller
// builds from (variant, fen, filter).
type Cache struct {
	lru      *lru.LRU[string, []byte]
	maxMoves int
}

// New returns a Cache holding at most maxEntries responses for ttl.
// maxMoves is the bypass threshold from §6's explorer.cache.maxMoves:
// positions whose FEN fullmove counter exceeds it skip the cache
// entirely (deep, rarely-shared positions aren't worth memoizing).
func New(maxEntries int, ttl time.Duration, maxMoves int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: lru.NewLRU[string, []byte](maxEntries, nil, ttl), maxMoves: maxMoves}
}

// Key builds the cache key for one query: variant, the FEN, and the
// filter's already-serialized query string (callers own canonicalizing
// parameter order so equivalent requests collide).
func Key(variant, fen, rawQuery string) string {
	var b strings.Builder
	b.WriteString(variant)
	b.WriteByte('|')
	b.WriteString(fen)
	b.WriteByte('|')
	b.WriteString(rawQuery)
	return b.String()
}

// Bypass reports whether fen's fullmove counter exceeds the configured
// threshold, meaning this query should skip the cache on both read and
// write.
func (c *Cache) Bypass(fen string) bool {
	if c.maxMoves <= 0 {
		return false
	}
	n, ok := fullmoveCounter(fen)
	return ok && n > c.maxMoves
}

// Get returns the cached body for key, if present and unexpired.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

// Put stores body under key, subject to the cache's TTL and size bound.
func (c *Cache) Put(key string, body []byte) {
	c.lru.Add(key, body)
}

// Len reports the number of live (unexpired) entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// fullmoveCounter reads the 6th space-separated field of a FEN string
// (the fullmove counter), the last field per FEN's six-field layout.
func fullmoveCounter(fen string) (int, bool) {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil {
		return 0, false
	}
	return n, true
}
