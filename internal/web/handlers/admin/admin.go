// Package admin implements the admin dashboard handlers: marketplace
// stats, user management, payment processing and abuse reports. Role
// checks live upstream; a non-admin session gets its 403 from the API.
package admin

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
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// Service is the slice of business logic the admin handlers need.
type Service interface {
	AdminStats(ctx context.Context) (models.AdminStats, error)
	AdminUsers(ctx context.Context, page int) ([]models.User, error)
	AdminPayments(ctx context.Context, status string, page int) ([]models.Payment, error)
	AdminUserPaymentMethod(ctx context.Context, userID string) (models.PaymentMethod, error)
	AdminReports(ctx context.Context) ([]models.Report, error)
	AdminUpdatePaymentStatus(ctx context.Context, id, status string) (models.Payment, error)
	AdminSetUserVerified(ctx context.Context, id string, verified bool) error
}

// Handler serves the admin routes.
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

func (h *Handler) renderReadErr(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string) {
	if errors.Is(err, api.ErrUnauthorized) {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.LoginRequired())
		return
	}
	log.Error(msg, sl.Err(err))
	w.WriteHeader(http.StatusBadGateway)
	render.JSON(w, r, response.Error(msg))
}

// Stats serves GET /api/admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.Stats")

	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		h.renderReadErr(w, r, log, err, "could not load stats")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"stats": stats,
	}))
}

// Users serves GET /api/admin/users?page=.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.Users")

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	users, err := h.service.AdminUsers(r.Context(), page)
	if err != nil {
		h.renderReadErr(w, r, log, err, "could not load users")
		return
	}

	log.Info("admin users served", "count", len(users))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": users,
	}))
}

// Payments serves GET /api/admin/payments?status=&page=.
func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.Payments")

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	status := r.URL.Query().Get("status")

	payments, err := h.service.AdminPayments(r.Context(), status, page)
	if err != nil {
		h.renderReadErr(w, r, log, err, "could not load payments")
		return
	}

	log.Info("admin payments served", "count", len(payments))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payments": payments,
	}))
}

// UserPaymentMethod serves GET /api/admin/users/{id}/payment-method,
// the destination an admin pays a developer through.
func (h *Handler) UserPaymentMethod(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.UserPaymentMethod")

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	method, err := h.service.AdminUserPaymentMethod(r.Context(), id)
	if err != nil {
		h.renderReadErr(w, r, log, err, "could not load payment method")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"method": method,
	}))
}

// Reports serves GET /api/admin/reports.
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.Reports")

	reports, err := h.service.AdminReports(r.Context())
	if err != nil {
		h.renderReadErr(w, r, log, err, "could not load reports")
		return
	}

	log.Info("admin reports served", "count", len(reports))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reports": reports,
	}))
}

// paymentStatusRequest is the PATCH /api/admin/payments/{id} body.
type paymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=none initiated paid"`
}

// UpdatePaymentStatus serves PATCH /api/admin/payments/{id}. Ordering
// of the none, initiated, paid transitions is enforced upstream.
func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.UpdatePaymentStatus")

	id := chi.URLParam(r, "id")

	var body paymentStatusRequest
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

	payment, err := h.service.AdminUpdatePaymentStatus(r.Context(), id, body.Status)
	if err != nil {
		log.Error("failed to update payment status", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("payment status updated",
		slog.String("id", id), slog.String("status", body.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": payment,
	}))
}

// verifiedRequest is the PATCH /api/admin/users/{id}/verified body.
type verifiedRequest struct {
	Verified bool `json:"verified"`
}

// SetUserVerified serves PATCH /api/admin/users/{id}/verified.
func (h *Handler) SetUserVerified(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.admin.SetUserVerified")

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	var body verifiedRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.AdminSetUserVerified(r.Context(), id, body.Verified); err != nil {
		log.Error("failed to set user verified", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("user verified flag updated",
		slog.String("id", id), slog.Bool("verified", body.Verified))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
