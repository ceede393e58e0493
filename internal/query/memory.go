package query

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	entry      *Entry
	expiration time.Time
}

// MemoryStore is the default in-process backend: a sync.Map with a
// janitor goroutine sweeping entries past their GC window.
type MemoryStore struct {
	data   sync.Map
	cancel context.CancelFunc
}

// NewMemoryStore creates a memory store and starts its janitor.
func NewMemoryStore() *MemoryStore {
	ctx, cancel := context.WithCancel(context.Background())
	ms := &MemoryStore{cancel: cancel}
	go ms.janitor(ctx)
	return ms
}

// Get retrieves an entry; expired entries read as a miss.
func (m *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	value, ok := m.data.Load(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	item := value.(memoryItem)
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		m.data.Delete(key)
		return nil, ErrCacheMiss
	}
	return item.entry, nil
}

// Set stores an entry; gcAfter bounds its lifetime.
func (m *MemoryStore) Set(_ context.Context, key string, entry *Entry, gcAfter time.Duration) error {
	item := memoryItem{entry: entry}
	if gcAfter > 0 {
		item.expiration = time.Now().Add(gcAfter)
	}
	m.data.Store(key, item)
	return nil
}

// Delete removes one entry.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// DeletePrefix removes a whole key family.
func (m *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	m.data.Range(func(key, _ any) bool {
		k := key.(string)
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			m.data.Delete(key)
		}
		return true
	})
	return nil
}

// Close stops the janitor.
func (m *MemoryStore) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

func (m *MemoryStore) janitor(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			m.data.Range(func(key, value any) bool {
				item := value.(memoryItem)
				if !item.expiration.IsZero() && now.After(item.expiration) {
					m.data.Delete(key)
				}
				return true
			})
		}
	}
}
