package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
)

// maxRetries caps automatic retries for a failed read. The cap keeps
// permanent errors from hiding behind indefinite spinning.
const maxRetries = 2

// backgroundTimeout bounds a silent background refetch.
const backgroundTimeout = 30 * time.Second

// Options declare a resource's cache policy.
type Options struct {
	// StaleAfter is the staleness window: after it elapses a cached
	// value is still served but a background refetch is kicked off.
	StaleAfter time.Duration
	// GCAfter is the lifetime after which an unused entry is evicted.
	GCAfter time.Duration
}

// FetchFunc loads a resource from the upstream API.
type FetchFunc func(ctx context.Context) (any, error)

// Client is the process-wide read-through cache. Concurrent fetches of
// the same key share one upstream call.
type Client struct {
	store     Store
	log       *slog.Logger
	metrics   *Metrics
	transient func(error) bool
	group     singleflight.Group

	mu   sync.Mutex
	subs map[string][]chan Key
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTransient sets the predicate deciding whether a failed fetch may
// be retried. The default retries everything up to the cap.
func WithTransient(fn func(error) bool) Option {
	return func(c *Client) { c.transient = fn }
}

// New builds a cache client over the given store.
func New(store Store, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		store:     store,
		log:       log,
		transient: func(error) bool { return true },
		subs:      make(map[string][]chan Key),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key, loading it through fn when
// absent. A fresh hit is returned as-is; a stale hit is returned
// immediately while a background refetch runs; a miss fetches
// synchronously with up to maxRetries retries for transient failures.
func (c *Client) Fetch(ctx context.Context, key Key, opts Options, fn FetchFunc) (json.RawMessage, error) {
	const op = "query.Fetch"

	entry, err := c.store.Get(ctx, key.String())
	if err == nil {
		c.metrics.hit(key.Family())
		if !entry.Stale(time.Now()) {
			return entry.Value, nil
		}
		go c.backgroundRefetch(ctx, key, opts, fn)
		return entry.Value, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Degraded store (e.g. redis unavailable): serve directly.
		c.log.Warn("cache read failed", slog.String("key", key.String()), sl.Err(err))
	}

	c.metrics.miss(key.Family())
	raw, err := c.refetch(ctx, key, opts, fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// backgroundRefetch refreshes a stale entry without blocking the caller.
// The parent's values (session cookie) survive; its cancellation does
// not, so navigating away cannot abort the refresh mid-write.
func (c *Client) backgroundRefetch(ctx context.Context, key Key, opts Options, fn FetchFunc) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
	defer cancel()

	if _, err := c.refetch(bg, key, opts, fn); err != nil {
		c.log.Warn("background refetch failed", slog.String("key", key.String()), sl.Err(err))
	}
}

func (c *Client) refetch(ctx context.Context, key Key, opts Options, fn FetchFunc) (json.RawMessage, error) {
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		var out any
		operation := func() error {
			res, err := fn(ctx)
			if err != nil {
				if c.transient(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			out = res
			return nil
		}

		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
		if err := backoff.Retry(operation, policy); err != nil {
			return nil, err
		}

		raw, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		entry := &Entry{Value: raw, FetchedAt: time.Now(), StaleAfter: opts.StaleAfter}
		if err := c.store.Set(ctx, key.String(), entry, opts.GCAfter); err != nil {
			c.log.Warn("cache write failed", slog.String("key", key.String()), sl.Err(err))
		}
		c.metrics.refetch(key.Family())
		c.notify(key)
		return json.RawMessage(raw), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// Invalidate evicts a whole key family so the next read refetches.
// Mutation hooks are the only callers.
func (c *Client) Invalidate(ctx context.Context, family string) error {
	const op = "query.Invalidate"

	if err := c.store.DeletePrefix(ctx, family); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.invalidate(family)
	c.notify(Key{family})
	return nil
}

// Subscribe registers interest in a key family. The channel receives the
// key of every update or invalidation touching the family; when the
// subscriber stops draining, further notifications are dropped rather
// than applied late. The returned func cancels the subscription.
func (c *Client) Subscribe(family string) (<-chan Key, func()) {
	ch := make(chan Key, 8)

	c.mu.Lock()
	c.subs[family] = append(c.subs[family], ch)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.subs[family]
		for i, sub := range subs {
			if sub == ch {
				c.subs[family] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

func (c *Client) notify(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs[key.Family()] {
		select {
		case ch <- key:
		default:
		}
	}
}
