package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/requisicion-service/internal/api/dto"
	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/service"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// AdminHandler manages the user approval surface.
type AdminHandler struct {
	service *service.UserService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{service: userService}
}

// ListPending GET /admin/users/pending.
func (h *AdminHandler) ListPending(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	profiles, err := h.service.ListPending(c.Context(), principal.Profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileList(profiles)})
}

// ListActive GET /admin/users.
func (h *AdminHandler) ListActive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	profiles, err := h.service.ListActive(c.Context(), principal.Profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileList(profiles)})
}

// Approve POST /admin/users/:id/approve.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.AssignRolRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	profile, err := h.service.Approve(c.Context(), principal.Profile, c.Params("id"), req.Rol)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Reject POST /admin/users/:id/reject.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	if err := h.service.Reject(c.Context(), principal.Profile, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rejected": true}})
}

// ChangeRole PATCH /admin/users/:id/rol.
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.AssignRolRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	profile, err := h.service.ChangeRole(c.Context(), principal.Profile, c.Params("id"), req.Rol)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Remove DELETE /admin/users/:id.
func (h *AdminHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	if err := h.service.Remove(c.Context(), principal.Profile, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
