// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// AutoParc API. Everything lives under /api; uploaded images stored on
// local disk are served under /uploads.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"autoparc/internal/handlers"
	"autoparc/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Tokens      middleware.TokenParser
	Revocations middleware.RevocationChecker // optional
	Accounts    middleware.AccountLoader

	// AuthLimiter throttles login and registration. Optional.
	AuthLimiter *middleware.RateLimiter
	CORSOrigin  string
	// TrustedProxies may set the client address through forwarding headers.
	TrustedProxies middleware.TrustedProxies
	// UploadDir is served under /uploads when set.
	UploadDir string

	System    *handlers.System
	Users     *handlers.Users
	Cars      *handlers.Cars
	Showrooms *handlers.Showrooms
	News      *handlers.News
	Upload    *handlers.Upload
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Logger runs after
	// Authenticate so request logs carry the account id.
	r.Use(middleware.RealIP(d.TrustedProxies))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigin))
	r.Use(middleware.Authenticate(d.Tokens, d.Revocations, d.Accounts))
	r.Use(middleware.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Route non trouvée"}`))
	})

	if d.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", d.System.Health)
		r.Get("/stats/public", d.System.PublicStats)

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if d.AuthLimiter != nil {
					r.Use(d.AuthLimiter.Middleware)
				}
				r.Post("/register", d.Users.Register)
				r.Post("/login", d.Users.Login)
			})

			// Caller's own account.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", d.Users.Logout)
				r.Get("/profile", d.Users.Profile)
				r.Put("/profile", d.Users.UpdateProfile)
				r.Post("/favorites/{carId}", d.Users.AddFavorite)
				r.Delete("/favorites/{carId}", d.Users.RemoveFavorite)
				r.Post("/2fa/setup", d.Users.TwoFASetup)
				r.Post("/2fa/enable", d.Users.TwoFAEnable)
				r.Post("/2fa/disable", d.Users.TwoFADisable)
			})

			// Account administration.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireAdmin)
				r.Get("/", d.Users.List)
				r.Get("/{id}", d.Users.Get)
				r.Put("/{id}", d.Users.Update)
				r.Delete("/{id}", d.Users.Delete)
			})
		})

		r.Route("/cars", func(r chi.Router) {
			r.Get("/", d.Cars.List)
			r.Get("/suggestions", d.Cars.Suggestions)
			r.With(middleware.RequireAuth).Get("/myads", d.Cars.Mine)
			r.Get("/{id}", d.Cars.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", d.Cars.Create)
				r.Put("/{id}", d.Cars.Update)
				r.Delete("/{id}", d.Cars.Delete)
			})
		})

		r.Route("/showrooms", func(r chi.Router) {
			r.Get("/", d.Showrooms.List)
			r.With(middleware.RequireAuth).Get("/mine", d.Showrooms.Mine)
			r.Get("/{id}", d.Showrooms.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", d.Showrooms.Create)
				r.Put("/", d.Showrooms.UpdateOwn)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireAdmin)
				r.Put("/{id}", d.Showrooms.AdminUpdate)
				r.Delete("/{id}", d.Showrooms.Delete)
			})
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", d.News.List)
			r.Get("/slug/{slug}", d.News.BySlug)
			r.Get("/id/{id}", d.News.ByID)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireAdmin)
				r.Post("/", d.News.Create)
				r.Put("/{id}", d.News.Update)
				r.Delete("/{id}", d.News.Delete)
			})
		})

		r.With(middleware.RequireAuth).Post("/upload", d.Upload.Image)
	})

	return r
}
