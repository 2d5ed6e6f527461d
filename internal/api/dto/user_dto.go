package dto

import (
	"time"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfileRequest payload for self-service renames.
type UpdateProfileRequest struct {
	NombreCompleto string `json:"nombre_completo"`
}

// AssignRolRequest payload for approval and role changes.
type AssignRolRequest struct {
	Rol domain.Rol `json:"rol"`
}

// ProfileResponse serializes an account. The password hash never leaves the
// service.
type ProfileResponse struct {
	ID             string     `json:"id"`
	NombreCompleto string     `json:"nombre_completo"`
	Email          string     `json:"email"`
	Rol            domain.Rol `json:"rol"`
	RolLabel       string     `json:"rol_label"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewProfileResponse maps the domain entity.
func NewProfileResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             profile.ID,
		NombreCompleto: profile.NombreCompleto,
		Email:          profile.Email,
		Rol:            profile.Rol,
		RolLabel:       profile.Rol.Label(),
		CreatedAt:      profile.CreatedAt,
		UpdatedAt:      profile.UpdatedAt,
	}
}

// NewProfileList maps a slice.
func NewProfileList(profiles []domain.Profile) []ProfileResponse {
	result := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, NewProfileResponse(&profiles[i]))
	}
	return result
}

// CapabilitiesResponse exposes the caller's capability set so the client can
// render the right controls without duplicating the role policy.
type CapabilitiesResponse struct {
	CanCreate            bool `json:"can_create"`
	CanEdit              bool `json:"can_edit"`
	CanDelete            bool `json:"can_delete"`
	CanAccessAdmin       bool `json:"can_access_admin"`
	CanViewOnly          bool `json:"can_view_only"`
	CanEditConfirmedDate bool `json:"can_edit_confirmed_date"`
	CanManageUsers       bool `json:"can_manage_users"`
}

// NewCapabilitiesResponse maps a capability set.
func NewCapabilitiesResponse(caps domain.CapabilitySet) CapabilitiesResponse {
	return CapabilitiesResponse{
		CanCreate:            caps.CanCreate,
		CanEdit:              caps.CanEdit,
		CanDelete:            caps.CanDelete,
		CanAccessAdmin:       caps.CanAccessAdmin,
		CanViewOnly:          caps.CanViewOnly,
		CanEditConfirmedDate: caps.CanEditConfirmedDate,
		CanManageUsers:       caps.CanManageUsers,
	}
}

// AuthResponse is the register/login result.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}
