package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Example        *handlers.ExampleHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. User management routes additionally
// require an active account; the token and me endpoints only require a
// resolvable one, matching the login contract.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Get("/hello", cfg.Example.Hello)
	api.Get("/hello/protected", cfg.AuthMiddleware.Handle, cfg.Example.HelloProtected)

	authGroup := api.Group("/auth")
	authGroup.Post("/token", cfg.Auth.Login)
	authGroup.Get("/user/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	users := api.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireActive())
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:email", cfg.Users.Get)
	users.Put("/:email", cfg.Users.Update)
	users.Delete("/:email", cfg.Users.Delete)
}
