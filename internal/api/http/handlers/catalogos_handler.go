package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/requisicion-service/internal/api/dto"
	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/service"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// CatalogosHandler manages the reference catalog endpoints.
type CatalogosHandler struct {
	service *service.CatalogoService
}

// NewCatalogosHandler constructs handler.
func NewCatalogosHandler(catalogoService *service.CatalogoService) *CatalogosHandler {
	return &CatalogosHandler{service: catalogoService}
}

// ListAll GET /catalogos.
func (h *CatalogosHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	catalogos, err := h.service.ListAll(c.Context(), principal.Profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": catalogos})
}

// List GET /catalogos/:tabla.
func (h *CatalogosHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	includeInactive := c.QueryBool("include_inactive", false)
	items, err := h.service.List(c.Context(), principal.Profile, tablaParam(c), includeInactive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCatalogoItemList(items)})
}

// Create POST /catalogos/:tabla.
func (h *CatalogosHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.CatalogoItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	item := req.ToItem()
	created, err := h.service.Create(c.Context(), principal.Profile, tablaParam(c), &item)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCatalogoItemResponse(created)})
}

// Update PUT /catalogos/:tabla/:id.
func (h *CatalogosHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.CatalogoItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	item := req.ToItem()
	item.ID = c.Params("id")
	updated, err := h.service.Update(c.Context(), principal.Profile, tablaParam(c), &item)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCatalogoItemResponse(updated)})
}

// SetActivo PATCH /catalogos/:tabla/:id/activo.
func (h *CatalogosHandler) SetActivo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.SetActivoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	if err := h.service.SetActivo(c.Context(), principal.Profile, tablaParam(c), c.Params("id"), req.Activo); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"activo": req.Activo}})
}

// Delete DELETE /catalogos/:tabla/:id.
func (h *CatalogosHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	if err := h.service.Delete(c.Context(), principal.Profile, tablaParam(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func tablaParam(c *fiber.Ctx) domain.CatalogoTabla {
	return domain.CatalogoTabla(c.Params("tabla"))
}
