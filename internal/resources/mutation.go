package resources

import (
	"context"
	"log/slog"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/query"
)

// Mutation describes one write: the call itself and the cache families
// that depend on its result.
type Mutation[Req, Resp any] struct {
	Name        string
	Invalidates []string
	Do          func(ctx context.Context, req Req) (Resp, error)
}

// Runner carries the shared collaborators every mutation needs.
type Runner struct {
	Cache    *query.Client
	Notifier Notifier
	Log      *slog.Logger
}

// Run performs the write with the contract every mutation shares:
// network call, then on success invalidate the dependent families and
// issue a success notification; on failure issue an error notification
// and leave every cache entry untouched, so reads keep reflecting the
// pre-mutation state.
func Run[Req, Resp any](ctx context.Context, r Runner, m Mutation[Req, Resp], req Req) (Resp, error) {
	var zero Resp

	resp, err := m.Do(ctx, req)
	if err != nil {
		if r.Notifier != nil {
			r.Notifier.Notify(failure(m.Name, api.Message(err)))
		}
		return zero, err
	}

	for _, family := range m.Invalidates {
		if err := r.Cache.Invalidate(ctx, family); err != nil {
			// The write landed upstream; a failed eviction only delays
			// freshness until the staleness window elapses.
			r.Log.Warn("invalidation failed", slog.String("family", family), sl.Err(err))
		}
	}
	if r.Notifier != nil {
		r.Notifier.Notify(success(m.Name, m.Name+" applied"))
	}
	return resp, nil
}
