package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Resources      *handlers.ResourcesHandler
	AuthMiddleware *auth.AuthMiddleware
	Users          repository.UserRepository
}

// RegisterRoutes wires HTTP routes. The auth middleware runs once for every
// request; route guards then decide per-path who gets through.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	app.Get("/public", cfg.Resources.Public)
	app.Get("/private", auth.RequireAuthenticated(), cfg.Resources.Private)
	app.Get("/manager", auth.RequireManager(cfg.Users), cfg.Resources.Manager)
}
