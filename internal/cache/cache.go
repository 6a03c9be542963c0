// Package cache memoizes resolved redirects. Entries are bounded by
// capacity and, optionally, by a time-to-live.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Redirects maps a raw request parameter value to the redirect URL it
// resolved to. Safe for concurrent use; capacity overflow evicts the
// least recently used entry.
type Redirects struct {
	lru *expirable.LRU[string, string]
}

// NewRedirects builds a cache holding at most capacity entries. A zero
// ttl disables time-based expiry, leaving capacity eviction only.
func NewRedirects(capacity int, ttl time.Duration) *Redirects {
	return &Redirects{lru: expirable.NewLRU[string, string](capacity, nil, ttl)}
}

func (c *Redirects) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *Redirects) Set(key, target string) {
	c.lru.Add(key, target)
}

func (c *Redirects) Len() int {
	return c.lru.Len()
}
