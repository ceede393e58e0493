// Package site registers the routed surface of the gateway.
package site

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Acode-Foundation/acode-site/internal/api"
	catalogfeed "github.com/Acode-Foundation/acode-site/internal/catalog"
	"github.com/Acode-Foundation/acode-site/internal/config"
	"github.com/Acode-Foundation/acode-site/internal/resources"
	adminh "github.com/Acode-Foundation/acode-site/internal/web/handlers/admin"
	authh "github.com/Acode-Foundation/acode-site/internal/web/handlers/auth"
	catalogh "github.com/Acode-Foundation/acode-site/internal/web/handlers/catalog"
	commentsh "github.com/Acode-Foundation/acode-site/internal/web/handlers/comments"
	paymentsh "github.com/Acode-Foundation/acode-site/internal/web/handlers/payments"
	pluginsh "github.com/Acode-Foundation/acode-site/internal/web/handlers/plugins"
	profileh "github.com/Acode-Foundation/acode-site/internal/web/handlers/profile"
	"github.com/Acode-Foundation/acode-site/internal/web/middlewarectx"
)

// RegisterRoutes mounts every route of the gateway on the router.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, apiClient *api.Client, service *resources.Service, source catalogfeed.Source) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.SessionMiddleware(),
	)

	catalogHandler := catalogh.New(logger, service, source)
	authHandler := authh.New(logger, apiClient, service)
	profileHandler := profileh.New(logger, service, apiClient)
	paymentsHandler := paymentsh.New(logger, service)
	pluginsHandler := pluginsh.New(logger, service)
	commentsHandler := commentsh.New(logger, service)
	adminHandler := adminh.New(logger, service)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))

		// Public surface: the marketing catalog and login.
		r.Get("/plugins", catalogHandler.List)
		r.Get("/plugins/{id}", catalogHandler.Detail)
		r.Get("/plugins/{id}/comments", catalogHandler.Comments)
		r.Post("/login", authHandler.Login)

		// Session-scoped surface.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(logger))

			r.Delete("/login", authHandler.Logout)
			r.Get("/session", authHandler.Session)

			r.Get("/profile", profileHandler.Show)
			r.Put("/profile", profileHandler.Submit)
			r.Post("/profile/otp", profileHandler.Verify)
			r.Post("/profile/otp/resend", profileHandler.Resend)
			r.Delete("/profile/otp", profileHandler.Cancel)

			r.Get("/user/payment-methods", paymentsHandler.Methods)
			r.Post("/user/payment-methods", paymentsHandler.Add)
			r.Delete("/user/payment-methods/{id}", paymentsHandler.Delete)
			r.Patch("/user/payment-methods/{id}/default", paymentsHandler.SetDefault)
			r.Get("/user/earnings/{year}/{month}", paymentsHandler.Earnings)
			r.Get("/user/payments", paymentsHandler.List)
			r.Get("/user/receipts/{id}", paymentsHandler.Receipt)
			r.Put("/user/threshold", paymentsHandler.Threshold)

			r.Get("/user/plugins", pluginsHandler.List)
			r.Post("/user/plugins", pluginsHandler.Submit)
			r.Patch("/user/plugins/{id}", pluginsHandler.Update)
			r.Delete("/user/plugins/{id}", pluginsHandler.Delete)

			r.Post("/plugins/{id}/comments", commentsHandler.Post)
			r.Patch("/plugins/{id}/comments", commentsHandler.Update)
			r.Delete("/comments/{id}", commentsHandler.Delete)
			r.Post("/comments/{id}/reply", commentsHandler.Reply)
			r.Post("/comments/{id}/flag", commentsHandler.ToggleFlag)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", adminHandler.Stats)
				r.Get("/users", adminHandler.Users)
				r.Get("/users/{id}/payment-method", adminHandler.UserPaymentMethod)
				r.Patch("/users/{id}/verified", adminHandler.SetUserVerified)
				r.Get("/payments", adminHandler.Payments)
				r.Patch("/payments/{id}", adminHandler.UpdatePaymentStatus)
				r.Get("/reports", adminHandler.Reports)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
