package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/requisicion-service/internal/api/dto"
	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/service"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// AuthHandler manages registration, login and profile self-service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	result, err := h.service.Register(c.Context(), req.NombreCompleto, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": authResponse(result)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Me GET /auth/me. Returns the caller's profile plus the capability set the
// client uses to decide which controls to render.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"profile":      dto.NewProfileResponse(principal.Profile),
		"capabilities": dto.NewCapabilitiesResponse(principal.Capabilities),
	}})
}

// UpdateProfile PATCH /auth/me.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	profile, err := h.service.UpdateNombre(c.Context(), principal.Profile, req.NombreCompleto)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("se requiere autenticación")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición inválido", nil)
	}
	if err := h.service.ChangePassword(c.Context(), principal.Profile, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Profile:   dto.NewProfileResponse(result.Profile),
	}
}
