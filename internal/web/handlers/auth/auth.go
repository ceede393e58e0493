// Package auth implements the login, logout and current-session
// handlers. The gateway never stores credentials; it relays them to the
// marketplace API and hands the resulting session cookie back to the
// browser.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// Authenticator performs the upstream login call.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*models.LoginSession, error)
}

// Service is the session-scoped business logic: who am I, and logout
// with its cache invalidation.
type Service interface {
	Developer(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
}

// Handler serves the auth routes.
type Handler struct {
	log      *slog.Logger
	auth     Authenticator
	service  Service
	validate *validator.Validate
}

// New creates a Handler.
func New(log *slog.Logger, auth Authenticator, service Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		service:  service,
		validate: validator.New(),
	}
}

// Login serves POST /api/login: relay the credentials, set the session
// cookie, return the deep-link token the mobile app consumes.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var creds api.Credentials
	if err := render.DecodeJSON(r.Body, &creds); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(creds); err != nil {
		var validateErrs validator.ValidationErrors
		errors.As(err, &validateErrs)
		log.Error("invalid request", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErrs))
		return
	}

	session, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(api.Message(err)))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookieName,
		Value:    session.Cookie,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged in")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":     session.Token,
		"deep_link": session.DeepLink(),
	}))
}

// Logout serves DELETE /api/login: destroy the upstream session, drop
// every cached per-session resource, clear the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context()); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not log out"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	log.Info("user logged out")
	render.JSON(w, r, response.StatusOKWithData(nil))
}

// Session serves GET /api/session: the logged-in developer, read
// through the cache.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Session"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, err := h.service.Developer(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.LoginRequired())
			return
		}
		log.Error("failed to read session user", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load user"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
