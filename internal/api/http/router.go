package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sparksupport/helpdesk/internal/api/http/handlers"
	"github.com/sparksupport/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Categories     *handlers.CategoriesHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Protected routes only establish
// identity here; role and ownership rules live in the service layer.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/signup", cfg.Auth.Signup)
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)

	protected.Get("/categories", cfg.Categories.List)
	protected.Post("/categories", cfg.Categories.Create)
	protected.Put("/categories/:id", cfg.Categories.Update)
	protected.Delete("/categories/:id", cfg.Categories.Delete)
	protected.Get("/priorities", cfg.Categories.ListPriorities)

	protected.Get("/staff", cfg.Staff.List)
	protected.Post("/staff", cfg.Staff.Create)

	protected.Post("/tickets", cfg.Tickets.Create)
	protected.Get("/tickets", cfg.Tickets.List)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Patch("/tickets/:id", cfg.Tickets.Patch)
	protected.Post("/tickets/:id/messages", cfg.Tickets.AddMessage)
}
