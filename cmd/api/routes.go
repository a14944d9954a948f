// AngelaMos | 2026
// routes.go

package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/storefront/internal/admin"
	"github.com/carterperez-dev/storefront/internal/auth"
	"github.com/carterperez-dev/storefront/internal/cart"
	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/health"
	"github.com/carterperez-dev/storefront/internal/middleware"
	"github.com/carterperez-dev/storefront/internal/product"
	"github.com/carterperez-dev/storefront/internal/user"
)

// app holds the constructed services; routes only wires them to HTTP.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	redis    *redis.Client
	keys     core.Keyspace
	auth     *auth.Service
	users    *user.Service
	products *product.Service
	carts    *cart.Service
	health   *health.Handler
	admin    *admin.Handler
}

func (a *app) routes(router chi.Router) {
	router.Use(middleware.RequestID)
	if a.cfg.Otel.Enabled {
		router.Use(middleware.Tracing)
	}
	router.Use(middleware.Logger(a.logger))
	router.Use(
		middleware.NewRateLimiter(a.redis, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				a.cfg.RateLimit.Requests,
				a.cfg.RateLimit.Burst,
				a.cfg.RateLimit.Window,
			),
			Keys:     a.keys,
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(a.cfg.IsProduction()))
	router.Use(middleware.CORS(a.cfg.CORS))

	a.health.RegisterRoutes(router)

	credentialLimiter := middleware.NewRateLimiter(a.redis, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			a.cfg.RateLimit.AuthRequests,
			a.cfg.RateLimit.AuthBurst,
			a.cfg.RateLimit.Window,
		),
		Keys:     a.keys,
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	}).Handler

	authenticator := middleware.Authenticator(a.auth, a.users, a.cfg.Cookie.Name)
	optionalAuth := middleware.OptionalAuth(a.auth, a.cfg.Cookie.Name)
	adminOnly := middleware.RequireAdmin

	authHandler := auth.NewHandler(a.auth, a.cfg.Cookie)
	userHandler := user.NewHandler(a.users)
	productHandler := product.NewHandler(a.products, a.cfg.Media.MaxUploadBytes)
	cartHandler := cart.NewHandler(a.carts)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			authHandler.RegisterAccountRoutes(r, credentialLimiter)
			userHandler.RegisterRoutes(r, authenticator, adminOnly)
		})

		r.Route("/products", func(r chi.Router) {
			productHandler.RegisterRoutes(r, authenticator, adminOnly)
		})

		r.Route("/cart", func(r chi.Router) {
			cartHandler.RegisterRoutes(r, authenticator, adminOnly)
		})

		authHandler.RegisterRoutes(r, credentialLimiter, optionalAuth)
		a.admin.RegisterRoutes(r, authenticator, adminOnly)
	})
}
