package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/requisicion-service/internal/domain"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("se requiere autenticación")
		}
		return c.Next()
	}
}

// RequireCapability gates a route on the role policy. The message names the
// missing capability's intent; services re-check at the gateway regardless.
func RequireCapability(check func(domain.CapabilitySet) bool, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("se requiere autenticación")
		}
		if !check(principal.Capabilities) {
			return apperrors.NewPermissionDenied(message)
		}
		return c.Next()
	}
}

// RequireAdminAccess gates the admin surface (user approval, global historial).
func RequireAdminAccess() fiber.Handler {
	return RequireCapability(
		func(caps domain.CapabilitySet) bool { return caps.CanAccessAdmin },
		"no tienes acceso al panel de administración",
	)
}
