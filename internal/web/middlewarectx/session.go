// Package middlewarectx holds the HTTP middleware of the gateway:
// session-cookie forwarding, the authenticated-route guard, and the
// request rate limiter.
//
// SessionMiddleware copies the upstream session cookie into the request
// context so outbound API calls replay it. RequireSession rejects
// requests without one, returning the login redirect shape.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/web/response"
)

// SessionMiddleware lifts the session cookie into the context for every
// request that carries one. Routes that work anonymously stay open; the
// cookie just rides along when present.
func SessionMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(api.SessionCookieName); err == nil && cookie.Value != "" {
				r = r.WithContext(api.WithSession(r.Context(), cookie.Value))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession guards routes that only make sense with a session. A
// request without the cookie gets 401 and the login redirect shape; it
// never reaches the upstream API.
func RequireSession(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"

			if _, ok := api.SessionFromContext(r.Context()); !ok {
				log.With(
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				).Info("request without session", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.LoginRequired())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
