// Package catalog implements the public plugin listing: page-by-page
// accumulation, a static fallback for the marketing page, and the
// client-side filters applied over already-loaded pages.
package catalog

import (
	"context"
	"log/slog"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
)

// Source yields one page of a plugin listing.
type Source interface {
	Page(ctx context.Context, params api.ListParams, page, limit int) ([]models.Plugin, error)
}

// RemoteSource reads pages from the marketplace API.
type RemoteSource struct {
	api *api.Client
}

// NewRemoteSource builds a Source over the API client.
func NewRemoteSource(client *api.Client) *RemoteSource {
	return &RemoteSource{api: client}
}

// Page implements Source.
func (r *RemoteSource) Page(ctx context.Context, params api.ListParams, page, limit int) ([]models.Plugin, error) {
	return r.api.Plugins(ctx, params, page, limit)
}

// StaticSource serves an embedded dataset. It backs the marketing
// catalog when the API is unreachable; a populated page beats an empty
// one there. Authenticated and admin listings never use it.
type StaticSource struct {
	plugins []models.Plugin
}

// NewStaticSource builds a Source over a fixed dataset.
func NewStaticSource(plugins []models.Plugin) *StaticSource {
	return &StaticSource{plugins: plugins}
}

// Page implements Source. Everything fits on the first page; later
// pages are empty, which ends pagination.
func (s *StaticSource) Page(_ context.Context, _ api.ListParams, page, _ int) ([]models.Plugin, error) {
	if page > 1 {
		return nil, nil
	}
	return s.plugins, nil
}

// Resilient tries the primary source and degrades to the fallback on
// any failure.
type Resilient struct {
	primary  Source
	fallback Source
	log      *slog.Logger
}

// NewResilient decorates primary with fallback.
func NewResilient(primary, fallback Source, log *slog.Logger) *Resilient {
	return &Resilient{primary: primary, fallback: fallback, log: log}
}

// Page implements Source.
func (r *Resilient) Page(ctx context.Context, params api.ListParams, page, limit int) ([]models.Plugin, error) {
	plugins, err := r.primary.Page(ctx, params, page, limit)
	if err == nil {
		return plugins, nil
	}
	r.log.Warn("catalog source unreachable, serving fallback", sl.Err(err))
	return r.fallback.Page(ctx, params, page, limit)
}
