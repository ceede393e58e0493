// Package profile implements the profile-settings handlers. Each
// session drives its own workflow instance; the handlers translate HTTP
// calls into workflow transitions and report the resulting state.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
	wf "github.com/Acode-Foundation/acode-site/internal/profile"
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// Service supplies the logged-in developer for seeding a new workflow.
type Service interface {
	Developer(ctx context.Context) (models.User, error)
}

// Handler serves the profile routes.
type Handler struct {
	log     *slog.Logger
	service Service
	updater wf.Updater

	mu    sync.Mutex
	flows map[string]*wf.Workflow
}

// New creates a Handler.
func New(log *slog.Logger, service Service, updater wf.Updater) *Handler {
	return &Handler{
		log:     log,
		service: service,
		updater: updater,
		flows:   make(map[string]*wf.Workflow),
	}
}

// workflow returns the session's workflow, creating one anchored to the
// developer's current email on first use.
func (h *Handler) workflow(r *http.Request) (*wf.Workflow, error) {
	session, ok := api.SessionFromContext(r.Context())
	if !ok {
		return nil, api.ErrUnauthorized
	}

	h.mu.Lock()
	flow, ok := h.flows[session]
	h.mu.Unlock()
	if ok {
		return flow, nil
	}

	user, err := h.service.Developer(r.Context())
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.flows[session]; ok {
		return existing, nil
	}
	flow = wf.New(h.updater, h.log, user.Email)
	h.flows[session] = flow
	return flow, nil
}

func (h *Handler) state(flow *wf.Workflow) map[string]any {
	return map[string]any{
		"state":      flow.State().String(),
		"form":       flow.Form(),
		"last_error": flow.LastError(),
	}
}

// renderTransitionErr maps workflow errors onto the response envelope.
func (h *Handler) renderTransitionErr(w http.ResponseWriter, r *http.Request, flow *wf.Workflow, err error) {
	switch {
	case flow != nil && flow.NeedsLogin():
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.LoginRequired())
	case errors.Is(err, wf.ErrInvalidOTP):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("code must be exactly six digits"))
	case errors.Is(err, wf.ErrInvalidTransition):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("action not allowed right now"))
	case errors.Is(err, api.ErrUnauthorized):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.LoginRequired())
	default:
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
	}
}

// Show serves GET /api/profile: current workflow state and form.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Show"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	flow, err := h.workflow(r)
	if err != nil {
		log.Error("failed to open workflow", sl.Err(err))
		h.renderTransitionErr(w, r, nil, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(h.state(flow)))
}

// Submit serves PUT /api/profile. An unchanged email persists directly;
// a changed one opens the verification dialog.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var form wf.Form
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	flow, err := h.workflow(r)
	if err != nil {
		log.Error("failed to open workflow", sl.Err(err))
		h.renderTransitionErr(w, r, nil, err)
		return
	}

	if err := flow.Submit(r.Context(), form); err != nil {
		log.Error("profile submit rejected", sl.Err(err))
		h.renderTransitionErr(w, r, flow, err)
		return
	}

	log.Info("profile submitted", slog.String("state", flow.State().String()))
	render.JSON(w, r, response.StatusOKWithData(h.state(flow)))
}

// Verify serves POST /api/profile/otp with body {"code": "123456"}.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var body struct {
		Code string `json:"code"`
	}
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	flow, err := h.workflow(r)
	if err != nil {
		h.renderTransitionErr(w, r, nil, err)
		return
	}

	if err := flow.Verify(r.Context(), body.Code); err != nil {
		log.Error("otp verification failed", sl.Err(err))
		h.renderTransitionErr(w, r, flow, err)
		return
	}

	log.Info("profile updated with verified email")
	render.JSON(w, r, response.StatusOKWithData(h.state(flow)))
}

// Resend serves POST /api/profile/otp/resend.
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Resend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	flow, err := h.workflow(r)
	if err != nil {
		h.renderTransitionErr(w, r, nil, err)
		return
	}

	if err := flow.Resend(r.Context()); err != nil {
		log.Error("otp resend failed", sl.Err(err))
		h.renderTransitionErr(w, r, flow, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(h.state(flow)))
}

// Cancel serves DELETE /api/profile/otp: abandon the email change.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	flow, err := h.workflow(r)
	if err != nil {
		h.renderTransitionErr(w, r, nil, err)
		return
	}

	if err := flow.Cancel(); err != nil {
		log.Error("otp cancel rejected", sl.Err(err))
		h.renderTransitionErr(w, r, flow, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(h.state(flow)))
}
