// Package catalog implements the HTTP handlers of the public plugin
// listing: the paged catalog with its filters, the plugin detail page,
// and the review thread under it.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Acode-Foundation/acode-site/internal/api"
	catalogfeed "github.com/Acode-Foundation/acode-site/internal/catalog"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// Service is the slice of business logic the detail handlers need.
type Service interface {
	PluginDetail(ctx context.Context, id string) (models.Plugin, error)
	Comments(ctx context.Context, pluginID string) ([]models.Review, error)
}

// Handler serves the catalog routes. One feed per ordering is kept for
// the whole gateway; pages accumulate across requests, so scrolling
// clients keep extending the same listing.
type Handler struct {
	log     *slog.Logger
	service Service
	source  catalogfeed.Source

	mu    sync.Mutex
	feeds map[string]*catalogfeed.Feed
}

// New creates a Handler over the detail service and the listing source.
func New(log *slog.Logger, service Service, source catalogfeed.Source) *Handler {
	return &Handler{
		log:     log,
		service: service,
		source:  source,
		feeds:   make(map[string]*catalogfeed.Feed),
	}
}

func (h *Handler) feed(params api.ListParams) *catalogfeed.Feed {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := params.Key()
	f, ok := h.feeds[key]
	if !ok {
		f = catalogfeed.NewFeed(h.source, params, catalogfeed.DefaultPageSize)
		h.feeds[key] = f
	}
	return f
}

// List serves GET /api/plugins. Query parameters: orderBy
// (downloads|newest), explore=random, category (all|free|paid), q for
// text search, more=1 to extend the listing by one page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	params := api.ListParams{
		Explore: r.URL.Query().Get("explore"),
		OrderBy: r.URL.Query().Get("orderBy"),
	}
	if params.Explore == "" && params.OrderBy == "" {
		params.OrderBy = api.OrderByDownloads
	}
	filter := catalogfeed.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	feed := h.feed(params)
	if len(feed.Items()) == 0 || r.URL.Query().Get("more") == "1" {
		if err := feed.Advance(r.Context(), filter); err != nil {
			log.Error("failed to load catalog page", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not load plugins"))
			return
		}
	}

	plugins := feed.Visible(filter)
	log.Info("catalog page served", "count", len(plugins))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plugins":  plugins,
		"has_next": feed.HasNextPage(),
	}))
}

// Detail serves GET /api/plugins/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.Detail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing plugin id in url")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing plugin id"))
		return
	}

	plugin, err := h.service.PluginDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("plugin not found"))
			return
		}
		log.Error("failed to read plugin", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load plugin"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plugin": plugin,
	}))
}

// Comments serves GET /api/plugins/{id}/comments.
func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.Comments"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing plugin id"))
		return
	}

	comments, err := h.service.Comments(r.Context(), id)
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load comments"))
		return
	}

	log.Info("comments served", "count", len(comments))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"comments": comments,
	}))
}
