package query

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or already evicted.
var ErrCacheMiss = errors.New("query: cache miss")

// Entry is a cached value with the bookkeeping needed for staleness
// checks. Eviction (the GC window) is handled by the store itself.
type Entry struct {
	Value      json.RawMessage `json:"value"`
	FetchedAt  time.Time       `json:"fetched_at"`
	StaleAfter time.Duration   `json:"stale_after"`
}

// Stale reports whether the entry is past its staleness window and
// eligible for a silent background refetch on next access.
func (e *Entry) Stale(now time.Time) bool {
	return e.StaleAfter > 0 && now.After(e.FetchedAt.Add(e.StaleAfter))
}

// Store is a cache backend. Implementations must treat gcAfter as the
// entry's lifetime; an expired entry reads as a miss.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry, gcAfter time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes the key equal to prefix and every key under
	// "prefix/". It must not touch sibling families that merely share
	// leading characters.
	DeletePrefix(ctx context.Context, prefix string) error
}
