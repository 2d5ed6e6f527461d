package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/events"
	"github.com/spec-kit/requisicion-service/internal/repository"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// UserService runs the account approval workflow. Accounts start at
// pendiente; approval grants an operating role, rejection hard-deletes the
// account. No transition ever returns a role to pendiente.
type UserService struct {
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(profiles repository.ProfileRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{profiles: profiles, dispatcher: dispatcher}
}

func requireManageUsers(actor *domain.Profile) error {
	if !actor.Capabilities().CanManageUsers {
		return apperrors.NewPermissionDenied("no tienes permisos para administrar usuarios")
	}
	return nil
}

// ListPending returns accounts awaiting approval, newest first.
func (s *UserService) ListPending(ctx context.Context, actor *domain.Profile) ([]domain.Profile, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	result, err := s.profiles.ListByRol(ctx, domain.RolPendiente)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListActive returns every account with an operating role.
func (s *UserService) ListActive(ctx context.Context, actor *domain.Profile) ([]domain.Profile, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	result, err := s.profiles.ListOperating(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Approve moves a pendiente account to an operating role.
func (s *UserService) Approve(ctx context.Context, actor *domain.Profile, userID string, rol domain.Rol) (*domain.Profile, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	if !rol.IsAssignable() {
		return nil, apperrors.NewValidationError("rol no asignable", map[string]any{"rol": rol})
	}

	target, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !target.IsPendiente() {
		return nil, apperrors.NewConflict("la cuenta ya fue aprobada", map[string]any{"rol": target.Rol})
	}

	if err := s.profiles.UpdateRol(ctx, userID, rol); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("usuario", map[string]any{"id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	target.Rol = rol

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserApproved,
		EntityID: userID,
		ActorID:  actor.ID,
		Payload:  events.UserApprovedPayload{Rol: rol},
	})
	return target, nil
}

// Reject permanently removes a pendiente account, identity included.
func (s *UserService) Reject(ctx context.Context, actor *domain.Profile, userID string) error {
	if err := requireManageUsers(actor); err != nil {
		return err
	}

	target, err := s.getProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !target.IsPendiente() {
		return apperrors.NewConflict("solo se pueden rechazar cuentas pendientes", map[string]any{"rol": target.Rol})
	}

	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("usuario", map[string]any{"id": userID})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserRejected,
		EntityID: userID,
		ActorID:  actor.ID,
		Payload:  events.UserRejectedPayload{Email: target.Email},
	})
	return nil
}

// ChangeRole reassigns an operating role. pendiente is unreachable here: it
// is a sign-up state, not an assignable role.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.Profile, userID string, rol domain.Rol) (*domain.Profile, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	if !rol.IsAssignable() {
		return nil, apperrors.NewValidationError("rol no asignable", map[string]any{"rol": rol})
	}

	target, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.IsPendiente() {
		return nil, apperrors.NewConflict("la cuenta está pendiente; usa el flujo de aprobación", nil)
	}

	if err := s.profiles.UpdateRol(ctx, userID, rol); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("usuario", map[string]any{"id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	target.Rol = rol
	return target, nil
}

// Remove hard-deletes an account. Admin only.
func (s *UserService) Remove(ctx context.Context, actor *domain.Profile, userID string) error {
	if !actor.Capabilities().CanDelete {
		return apperrors.NewPermissionDenied("solo el administrador puede eliminar usuarios")
	}
	if actor.ID == userID {
		return apperrors.NewConflict("no puedes eliminar tu propia cuenta", nil)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("usuario", map[string]any{"id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *UserService) getProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	target, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("usuario", map[string]any{"id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

func (s *UserService) publishEvent(ctx context.Context, event events.Event) {
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
