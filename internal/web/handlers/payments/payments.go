// Package payments implements the dashboard handlers for payout
// destinations, earnings, payment history and receipts. Reads go
// through the cache; writes invalidate the families they touch.
package payments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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

// Service is the slice of business logic the payment handlers need.
type Service interface {
	Developer(ctx context.Context) (models.User, error)
	PaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	AddPaymentMethod(ctx context.Context, m api.NewPaymentMethod) (models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id string) error
	SetDefaultPaymentMethod(ctx context.Context, id string) error
	Earnings(ctx context.Context, userID string, year, month int) (models.EarningsReport, error)
	Payments(ctx context.Context, userID string, year int) ([]models.Payment, error)
	Receipt(ctx context.Context, userID, id string) (models.Receipt, error)
	UpdateThreshold(ctx context.Context, threshold int) error
}

// Handler serves the payment routes.
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

// developer resolves the logged-in user through the cache; every route
// here keys its reads by the developer's id.
func (h *Handler) developer(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.User, bool) {
	user, err := h.service.Developer(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, resources.ErrNotReady) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.LoginRequired())
			return models.User{}, false
		}
		log.Error("failed to resolve developer", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load user"))
		return models.User{}, false
	}
	return user, true
}

// Methods serves GET /api/user/payment-methods.
func (h *Handler) Methods(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.Methods")

	user, ok := h.developer(w, r, log)
	if !ok {
		return
	}

	methods, err := h.service.PaymentMethods(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list payment methods", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load payment methods"))
		return
	}

	log.Info("payment methods served", "count", len(methods))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"methods": methods,
	}))
}

// Add serves POST /api/user/payment-methods.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.Add")

	var body api.NewPaymentMethod
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

	method, err := h.service.AddPaymentMethod(r.Context(), body)
	if err != nil {
		log.Error("failed to add payment method", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("payment method added", slog.String("id", method.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"method": method,
	}))
}

// Delete serves DELETE /api/user/payment-methods/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.Delete")

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing payment method id"))
		return
	}

	if err := h.service.DeletePaymentMethod(r.Context(), id); err != nil {
		log.Error("failed to delete payment method", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("payment method deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}

// SetDefault serves PATCH /api/user/payment-methods/{id}/default. The
// server owns the transition; this only triggers it and invalidates.
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.SetDefault")

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing payment method id"))
		return
	}

	if err := h.service.SetDefaultPaymentMethod(r.Context(), id); err != nil {
		log.Error("failed to set default payment method", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("default payment method set", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}

// Earnings serves GET /api/user/earnings/{year}/{month}; both default
// to the current month when absent.
func (h *Handler) Earnings(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.Earnings")

	user, ok := h.developer(w, r, log)
	if !ok {
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		year = now.Year()
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		month = int(now.Month())
	}

	report, err := h.service.Earnings(r.Context(), user.ID, year, month)
	if err != nil {
		log.Error("failed to read earnings", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load earnings"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"earnings": report,
	}))
}

// List serves GET /api/user/payments with an optional year query.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.List")

	user, ok := h.developer(w, r, log)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		year = time.Now().Year()
	}

	payments, err := h.service.Payments(r.Context(), user.ID, year)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load payments"))
		return
	}

	log.Info("payments served", "count", len(payments))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payments": payments,
	}))
}

// Receipt serves GET /api/user/receipts/{id}.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.Receipt")

	user, ok := h.developer(w, r, log)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing receipt id"))
		return
	}

	receipt, err := h.service.Receipt(r.Context(), user.ID, id)
	if err != nil {
		log.Error("failed to read receipt", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load receipt"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"receipt": receipt,
	}))
}

// thresholdRequest is the PUT /api/user/threshold body.
type thresholdRequest struct {
	Threshold int `json:"threshold" validate:"min=1"`
}

// Threshold serves PUT /api/user/threshold.
func (h *Handler) Threshold(w http.ResponseWriter, r *http.Request) {
	log := h.opLog(r, "handlers.payments.Threshold")

	var body thresholdRequest
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

	if err := h.service.UpdateThreshold(r.Context(), body.Threshold); err != nil {
		log.Error("failed to update threshold", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	log.Info("threshold updated", slog.Int("threshold", body.Threshold))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
