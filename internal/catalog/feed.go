package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/models"
)

// DefaultPageSize matches the fixed page length of status-filtered
// listings; public listings let the provider decide and the feed adapts
// to whatever length comes back.
const DefaultPageSize = 20

// Feed accumulates a plugin listing page by page, de-duplicated by id.
// A page shorter than the page size signals the end of the listing.
type Feed struct {
	source   Source
	params   api.ListParams
	pageSize int

	mu      sync.Mutex
	page    int
	items   []models.Plugin
	seen    map[string]struct{}
	hasNext bool
}

// NewFeed builds an empty feed; nothing is fetched until LoadMore.
func NewFeed(source Source, params api.ListParams, pageSize int) *Feed {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Feed{
		source:   source,
		params:   params,
		pageSize: pageSize,
		seen:     make(map[string]struct{}),
		hasNext:  true,
	}
}

// LoadMore fetches and appends the next page. Calling it after the
// listing is exhausted is a no-op.
func (f *Feed) LoadMore(ctx context.Context) error {
	const op = "catalog.Feed.LoadMore"

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hasNext {
		return nil
	}

	plugins, err := f.source.Page(ctx, f.params, f.page+1, f.pageSize)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	f.page++

	for _, p := range plugins {
		if _, dup := f.seen[p.ID]; dup {
			continue
		}
		f.seen[p.ID] = struct{}{}
		f.items = append(f.items, p)
	}
	if len(plugins) < f.pageSize {
		f.hasNext = false
	}
	return nil
}

// Advance loads the next page unless a text search is active; scrolling
// during a search must not fetch unfiltered pages behind the results.
func (f *Feed) Advance(ctx context.Context, filter Filter) error {
	if filter.Active() {
		return nil
	}
	return f.LoadMore(ctx)
}

// HasNextPage reports whether another page may exist.
func (f *Feed) HasNextPage() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasNext
}

// Items returns a copy of everything accumulated so far.
func (f *Feed) Items() []models.Plugin {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Plugin(nil), f.items...)
}

// Visible returns the accumulated items narrowed by the filter.
func (f *Feed) Visible(filter Filter) []models.Plugin {
	return filter.Apply(f.Items())
}
