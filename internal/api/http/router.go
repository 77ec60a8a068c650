package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
}
