package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/localmarket/offers-service/internal/api/http/handlers"
	"github.com/localmarket/offers-service/internal/auth"
	"github.com/localmarket/offers-service/internal/domain"
	"github.com/localmarket/offers-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Offers         *handlers.OffersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", observability.MetricsHandler())

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)

	offers := app.Group("/offers")
	offers.Get("/", cfg.Offers.Nearby)
	offers.Get("/:id", cfg.Offers.Get)
	offers.Post("/", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSeller), cfg.Offers.Create)
	offers.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSeller), cfg.Offers.Update)
	offers.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSeller), cfg.Offers.Delete)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/profile", cfg.Users.GetProfile)
	users.Put("/profile", cfg.Users.UpdateProfile)
}
