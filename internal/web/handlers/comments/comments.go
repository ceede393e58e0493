// Package comments implements the review mutations: post, edit, delete,
// author reply and the abuse flag toggle.
package comments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// Service is the slice of business logic the comment handlers need.
type Service interface {
	PostComment(ctx context.Context, pluginID string, body api.CommentRequest) (models.Review, error)
	UpdateComment(ctx context.Context, pluginID string, body api.CommentRequest) (models.Review, error)
	DeleteComment(ctx context.Context, id string) error
	ReplyComment(ctx context.Context, id, reply string) error
	ToggleCommentFlag(ctx context.Context, id string) error
}

// Handler serves the comment routes.
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

func (h *Handler) decodeComment(w http.ResponseWriter, r *http.Request, log *slog.Logger) (api.CommentRequest, bool) {
	var body api.CommentRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return body, false
	}
	if err := h.validate.Struct(body); err != nil {
		var validateErrs validator.ValidationErrors
		errors.As(err, &validateErrs)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErrs))
		return body, false
	}
	return body, true
}

// Post serves POST /api/plugins/{id}/comments.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.comments.Post")

	pluginID := chi.URLParam(r, "id")
	body, ok := h.decodeComment(w, r, log)
	if !ok {
		return
	}

	review, err := h.service.PostComment(r.Context(), pluginID, body)
	if err != nil {
		log.Error("failed to post comment", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("comment posted", slog.String("plugin_id", pluginID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"comment": review,
	}))
}

// Update serves PATCH /api/plugins/{id}/comments.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.comments.Update")

	pluginID := chi.URLParam(r, "id")
	body, ok := h.decodeComment(w, r, log)
	if !ok {
		return
	}

	review, err := h.service.UpdateComment(r.Context(), pluginID, body)
	if err != nil {
		log.Error("failed to update comment", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"comment": review,
	}))
}

// Delete serves DELETE /api/comments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.comments.Delete")

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteComment(r.Context(), id); err != nil {
		log.Error("failed to delete comment", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("comment deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}

// replyRequest is the POST /api/comments/{id}/reply body.
type replyRequest struct {
	Reply string `json:"reply" validate:"required"`
}

// Reply serves POST /api/comments/{id}/reply, the plugin author's
// answer under a review.
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.comments.Reply")

	id := chi.URLParam(r, "id")

	var body replyRequest
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

	if err := h.service.ReplyComment(r.Context(), id, body.Reply); err != nil {
		log.Error("failed to reply to comment", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(nil))
}

// ToggleFlag serves POST /api/comments/{id}/flag.
func (h *Handler) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.comments.ToggleFlag")

	id := chi.URLParam(r, "id")
	if err := h.service.ToggleCommentFlag(r.Context(), id); err != nil {
		log.Error("failed to toggle comment flag", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(nil))
}
