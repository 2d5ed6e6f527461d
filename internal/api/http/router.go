package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/requisicion-service/internal/api/http/handlers"
	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Requisiciones  *handlers.RequisicionesHandler
	Catalogos      *handlers.CatalogosHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Route-level guards fail fast; the services
// re-check every capability regardless.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	me := authGroup.Group("", cfg.AuthMiddleware.Handle)
	me.Get("/me", cfg.Auth.Me)
	me.Patch("/me", cfg.Auth.UpdateProfile)
	me.Post("/password/change", cfg.Auth.ChangePassword)

	requisiciones := app.Group("/requisiciones", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	requisiciones.Get("", cfg.Requisiciones.List)
	requisiciones.Post("", cfg.Requisiciones.Create)
	requisiciones.Get("/:id", cfg.Requisiciones.Get)
	requisiciones.Patch("/:id", cfg.Requisiciones.Update)
	requisiciones.Delete("/:id", cfg.Requisiciones.Delete)
	requisiciones.Get("/:id/historial", cfg.Requisiciones.ListHistorial)

	catalogos := app.Group("/catalogos", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	catalogos.Get("", cfg.Catalogos.ListAll)
	catalogos.Get("/:tabla", cfg.Catalogos.List)
	catalogos.Post("/:tabla", cfg.Catalogos.Create)
	catalogos.Put("/:tabla/:id", cfg.Catalogos.Update)
	catalogos.Patch("/:tabla/:id/activo", cfg.Catalogos.SetActivo)
	catalogos.Delete("/:tabla/:id", cfg.Catalogos.Delete)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdminAccess())
	admin.Get("/historial", cfg.Requisiciones.ListHistorialGlobal)

	users := admin.Group("/users", auth.RequireCapability(
		func(caps domain.CapabilitySet) bool { return caps.CanManageUsers },
		"no tienes permisos para administrar usuarios",
	))
	users.Get("", cfg.Admin.ListActive)
	users.Get("/pending", cfg.Admin.ListPending)
	users.Post("/:id/approve", cfg.Admin.Approve)
	users.Post("/:id/reject", cfg.Admin.Reject)
	users.Patch("/:id/rol", cfg.Admin.ChangeRole)
	users.Delete("/:id", cfg.Admin.Remove)
}
