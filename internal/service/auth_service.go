package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/events"
	"github.com/spec-kit/requisicion-service/internal/repository"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// AuthService handles registration, login and profile self-service. Every new
// account starts at rol pendiente and stays read-less until an administrator
// approves it.
type AuthService struct {
	profiles   repository.ProfileRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(profiles repository.ProfileRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher, bcryptCost int) *AuthService {
	return &AuthService{profiles: profiles, tokens: tokens, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   *domain.Profile
}

// Register creates a pendiente account and issues a token so the caller can
// poll their approval state. The requested role, if any, is ignored.
func (s *AuthService) Register(ctx context.Context, nombre, email, password string) (*AuthResult, error) {
	nombre = strings.TrimSpace(nombre)
	email = strings.ToLower(strings.TrimSpace(email))

	var fields []apperrors.FieldError
	if nombre == "" {
		fields = append(fields, apperrors.FieldError{Field: "nombre_completo", Message: "El nombre es requerido"})
	}
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, apperrors.FieldError{Field: "email", Message: "Correo electrónico inválido"})
	}
	if len(password) < 6 {
		fields = append(fields, apperrors.FieldError{Field: "password", Message: "La contraseña debe tener al menos 6 caracteres"})
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationFailed(fields)
	}

	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("el correo ya está registrado", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	profile := &domain.Profile{
		NombreCompleto: nombre,
		Email:          email,
		PasswordHash:   hash,
		Rol:            domain.RolPendiente,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserRegistered,
		EntityID: profile.ID,
		ActorID:  profile.ID,
		Payload:  events.UserRegisteredPayload{Email: email},
	})
	return s.issueToken(profile)
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same message so the endpoint does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("credenciales inválidas")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("credenciales inválidas")
	}
	return s.issueToken(profile)
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.Profile, currentPassword, newPassword string) error {
	if err := auth.ComparePassword(actor.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("la contraseña actual no coincide")
	}
	if len(newPassword) < 6 {
		return apperrors.NewValidationFailed([]apperrors.FieldError{
			{Field: "password", Message: "La contraseña debe tener al menos 6 caracteres"},
		})
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	actor.PasswordHash = hash
	if err := s.profiles.Update(ctx, actor); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UpdateNombre renames the caller's own account.
func (s *AuthService) UpdateNombre(ctx context.Context, actor *domain.Profile, nombre string) (*domain.Profile, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, apperrors.NewValidationFailed([]apperrors.FieldError{
			{Field: "nombre_completo", Message: "El nombre es requerido"},
		})
	}
	actor.NombreCompleto = nombre
	if err := s.profiles.Update(ctx, actor); err != nil {
		return nil, apperrors.MapError(err)
	}
	return actor, nil
}

func (s *AuthService) issueToken(profile *domain.Profile) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(profile.ID, profile.Rol)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Profile: profile}, nil
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
