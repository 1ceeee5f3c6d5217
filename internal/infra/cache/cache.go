// Package cache provides an in-memory LRU cache with per-entry TTL for
// finished summaries, and a cron-driven purger that reports expirations.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// expired reports whether the item outlived its TTL. Items stored without a
// TTL have a zero expiresAt and never expire.
func (i item[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// LRU is a generic LRU cache with TTL support backed by
// hashicorp/golang-lru's expirable cache. A zero capacity disables it:
// Set stores nothing and Get always misses.
//
// Thread safety: LRU is safe for concurrent use.
type LRU[K comparable, V any] struct {
	entries *expirable.LRU[K, item[V]]
	ttl     time.Duration

	// expired counts entries dropped after their TTL since the last Purge.
	expired atomic.Int64
}

// New creates an LRU holding at most capacity entries, each valid for ttl.
// A non-positive ttl means entries never expire.
func New[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if ttl < 0 {
		ttl = 0
	}
	c := &LRU[K, V]{ttl: ttl}
	if capacity > 0 {
		c.entries = expirable.NewLRU[K, item[V]](capacity, c.onEvict, ttl)
	}
	return c
}

// Enabled reports whether the cache can hold entries.
func (c *LRU[K, V]) Enabled() bool {
	return c != nil && c.entries != nil
}

// Get returns the value for key if present and not expired.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}

	it, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	return it.value, true
}

// Set adds or replaces the value for key, evicting the least recently used
// entry when the cache is full.
func (c *LRU[K, V]) Set(key K, value V) {
	if !c.Enabled() {
		return
	}

	it := item[V]{value: value}
	if c.ttl > 0 {
		it.expiresAt = time.Now().Add(c.ttl)
	}
	c.entries.Add(key, it)
}

// Purge returns how many entries expired since the previous call. Expired
// entries are swept by the underlying cache in the background and never
// returned by Get.
func (c *LRU[K, V]) Purge() int {
	if !c.Enabled() {
		return 0
	}
	return int(c.expired.Swap(0))
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *LRU[K, V]) Len() int {
	if !c.Enabled() {
		return 0
	}
	return c.entries.Len()
}

func (c *LRU[K, V]) onEvict(_ K, it item[V]) {
	if it.expired(time.Now()) {
		c.expired.Add(1)
	}
}
