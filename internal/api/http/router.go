package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/etickets/ticket-admin/internal/api/http/handlers"
	"github.com/etickets/ticket-admin/internal/auth"
	"github.com/etickets/ticket-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Employees      *handlers.EmployeesHandler
	Customers      *handlers.CustomersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)

	staffOnly := auth.RequireRole(domain.RoleAdmin, domain.RoleEmployee)
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", staffOnly, cfg.Tickets.Update)
	tickets.Post("/:id/assign", staffOnly, cfg.Tickets.Assign)

	employees := app.Group("/employees", cfg.AuthMiddleware.Handle, adminOnly)
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle, adminOnly)
	customers.Get("/", cfg.Customers.List)
	customers.Post("/", cfg.Customers.Create)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, adminOnly)
	admin.Post("/reset", cfg.Auth.Reset)
}
