// Package plugins implements the dashboard handlers for the developer's
// own plugins: listing by status, submission, update and removal.
package plugins

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/resources"
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// Service is the slice of business logic the plugin handlers need.
type Service interface {
	Developer(ctx context.Context) (models.User, error)
	UserPlugins(ctx context.Context, userID, status string, page int) ([]models.Plugin, error)
	SubmitPlugin(ctx context.Context, sub api.PluginSubmission) (models.Plugin, error)
	UpdatePlugin(ctx context.Context, id string, patch api.PluginPatch) (models.Plugin, error)
	DeletePlugin(ctx context.Context, id string) error
}

// Handler serves the developer plugin routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) opLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List serves GET /api/user/plugins?status=&page=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.plugins.List")

	user, err := h.service.Developer(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, resources.ErrNotReady) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.LoginRequired())
			return
		}
		log.Error("failed to resolve developer", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load user"))
		return
	}

	status := r.URL.Query().Get("status")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	plugins, err := h.service.UserPlugins(r.Context(), user.ID, status, page)
	if err != nil {
		log.Error("failed to list user plugins", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load plugins"))
		return
	}

	log.Info("user plugins served", "count", len(plugins))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plugins":  plugins,
		"has_next": len(plugins) == resources.PageSize,
	}))
}

// Submit serves POST /api/user/plugins. New plugins start pending until
// an admin approves them.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.plugins.Submit")

	var body api.PluginSubmission
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(body); err != nil {
		var validateErrs validator.ValidationErrors
		errors.As(err, &validateErrs)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErrs))
		return
	}

	plugin, err := h.service.SubmitPlugin(r.Context(), body)
	if err != nil {
		log.Error("failed to submit plugin", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("plugin submitted", slog.String("id", plugin.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plugin": plugin,
	}))
}

// Update serves PATCH /api/user/plugins/{id} with a partial body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.plugins.Update")

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing plugin id"))
		return
	}

	var patch api.PluginPatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	plugin, err := h.service.UpdatePlugin(r.Context(), id, patch)
	if err != nil {
		log.Error("failed to update plugin", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("plugin updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plugin": plugin,
	}))
}

// Delete serves DELETE /api/user/plugins/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.plugins.Delete")

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing plugin id"))
		return
	}

	if err := h.service.DeletePlugin(r.Context(), id); err != nil {
		log.Error("failed to delete plugin", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("plugin deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
