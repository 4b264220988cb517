package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/langtools/langtools-api/internal/api"
	"github.com/langtools/langtools-api/internal/api/middleware"
)

// router wires handlers and middleware.
func (app *application) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(app.logger))
	r.Use(chimw.Recoverer)
	if app.metrics != nil {
		r.Use(middleware.Metrics(app.metrics))
	}

	authHandler := api.NewAuthHandler(app.users, app.jwtService,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute, app.logger)
	entryHandler := api.NewEntryHandler(app.entries, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviews, app.scheduler, app.logger)
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", api.HealthHandler(app.db))
	if app.metrics != nil {
		r.Handle(app.config.Metrics.Path, app.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if rl := app.config.RateLimit; rl.Enabled {
			r.Use(middleware.RateLimit(rl.RequestsPerSecond, rl.Burst))
		}

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/entries", entryHandler.CreateEntry)
			r.Get("/entries/{id}", entryHandler.GetEntry)
			r.Post("/entries/{id}/regenerate", entryHandler.RegenerateEntry)
			r.Delete("/entries/{id}", entryHandler.DeleteEntry)

			r.Get("/reviews/due", reviewHandler.ListDue)
			r.Post("/reviews/{id}", reviewHandler.SubmitReview)
			r.Get("/reviews/{id}/preview", reviewHandler.Preview)
		})
	})

	return r
}
