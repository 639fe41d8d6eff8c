package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Admin  *handlers.DashboardHandler
	User   *handlers.DashboardHandler
	Export *handlers.ExportHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := app.Group("/admin")
	registerDashboard(admin, cfg.Admin)
	admin.Get("/export", cfg.Export.Export)

	registerDashboard(app.Group("/user"), cfg.User)
}

func registerDashboard(group fiber.Router, h *handlers.DashboardHandler) {
	group.Get("/", h.Page)
	group.Get("/regions/:region", h.Region)
	group.Post("/events", h.Event)
	group.Post("/keys", h.Key)
	group.Get("/notifications", h.Notifications)
	group.Delete("/notifications/:id", h.DismissNotification)
}
