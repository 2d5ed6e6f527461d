package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/requisicion-service/internal/api/dto"
	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/service"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// RequisicionesHandler manages requisicion endpoints. Role checks live in the
// service; the handler only parses and serializes.
type RequisicionesHandler struct {
	service *service.RequisicionService
}

// NewRequisicionesHandler constructs handler.
func NewRequisicionesHandler(requisicionService *service.RequisicionService) *RequisicionesHandler {
	return &RequisicionesHandler{service: requisicionService}
}

// Create POST /requisiciones.
func (h *RequisicionesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.RequisicionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	created, err := h.service.Create(c.Context(), principal.Profile, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRequisicionResponse(created)})
}

// List GET /requisiciones.
func (h *RequisicionesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	result, err := h.service.List(c.Context(), principal.Profile, parseRequisicionFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequisicionList(result)})
}

// Get GET /requisiciones/:id.
func (h *RequisicionesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	req, err := h.service.Get(c.Context(), principal.Profile, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequisicionResponse(req)})
}

// Update PATCH /requisiciones/:id.
func (h *RequisicionesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.RequisicionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	updated, err := h.service.Update(c.Context(), principal.Profile, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequisicionResponse(updated)})
}

// Delete DELETE /requisiciones/:id.
func (h *RequisicionesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	if err := h.service.Delete(c.Context(), principal.Profile, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ListHistorial GET /requisiciones/:id/historial.
func (h *RequisicionesHandler) ListHistorial(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	entries, err := h.service.ListHistorial(c.Context(), principal.Profile, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistorialList(entries)})
}

// ListHistorialGlobal GET /admin/historial.
func (h *RequisicionesHandler) ListHistorialGlobal(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	page := parsePositiveInt(c.Query("page"), 1)
	pageSize := parsePositiveInt(c.Query("page_size"), 50)
	entries, err := h.service.ListHistorialGlobal(c.Context(), principal.Profile, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistorialList(entries)})
}

func parseRequisicionFilter(c *fiber.Ctx) domain.RequisicionFilter {
	filter := domain.RequisicionFilter{}
	if v := c.Query("proveedor_id"); v != "" {
		filter.ProveedorID = &v
	}
	if v := c.Query("destino_id"); v != "" {
		filter.DestinoID = &v
	}
	if v := c.Query("estatus_id"); v != "" {
		filter.EstatusID = &v
	}
	if v := c.Query("fecha_desde"); v != "" {
		filter.FechaDesde = &v
	}
	if v := c.Query("fecha_hasta"); v != "" {
		filter.FechaHasta = &v
	}
	return filter
}

func parsePositiveInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
