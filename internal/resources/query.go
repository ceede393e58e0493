package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Acode-Foundation/acode-site/internal/query"
)

// ErrNotReady reports that a required identifier is still empty, so the
// read was skipped without touching the network. This keeps
// not-yet-authenticated renders from producing request storms.
var ErrNotReady = errors.New("resources: required identifier missing")

// Cache window presets. User-specific mutable resources refresh fast;
// read-heavy, rarely-changing resources keep longer windows.
var (
	WindowsVolatile = query.Options{StaleAfter: 2 * time.Minute, GCAfter: 10 * time.Minute}
	WindowsDefault  = query.Options{StaleAfter: 5 * time.Minute, GCAfter: 15 * time.Minute}
	WindowsStatic   = query.Options{StaleAfter: 10 * time.Minute, GCAfter: 30 * time.Minute}
)

// Query describes one cached read: where it lives in the cache, when it
// goes stale, and how to load it.
type Query[T any] struct {
	Family   string
	Params   []string
	Requires []string
	Windows  query.Options
	Fetch    func(ctx context.Context) (T, error)
}

// Get reads the resource through the cache. Empty required identifiers
// short-circuit to ErrNotReady before any network activity.
func Get[T any](ctx context.Context, cache *query.Client, q Query[T]) (T, error) {
	var zero T
	for _, id := range q.Requires {
		if id == "" {
			return zero, ErrNotReady
		}
	}

	raw, err := cache.Fetch(ctx, query.K(q.Family, q.Params...), q.Windows, func(ctx context.Context) (any, error) {
		return q.Fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("resources: decode cached %s: %w", q.Family, err)
	}
	return out, nil
}
