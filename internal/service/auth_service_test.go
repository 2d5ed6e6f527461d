package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/requisicion-service/internal/auth"
	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/events"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

func newAuthService(repo *stubProfileRepo, dispatcher *recordingDispatcher) *AuthService {
	tokens := auth.NewTokenManager("test-secret", 60)
	return NewAuthService(repo, tokens, dispatcher, bcrypt.MinCost)
}

func TestRegisterAlwaysStartsPendiente(t *testing.T) {
	repo := newStubProfileRepo()
	dispatcher := &recordingDispatcher{}
	svc := newAuthService(repo, dispatcher)

	result, err := svc.Register(context.Background(), "Nueva Persona", "Nueva@Example.com", "secreto1")

	require.NoError(t, err)
	assert.Equal(t, domain.RolPendiente, result.Profile.Rol)
	assert.Equal(t, "nueva@example.com", result.Profile.Email, "emails are normalized to lowercase")
	assert.NotEmpty(t, result.Token)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventUserRegistered, dispatcher.published[0].Type)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newStubProfileRepo(), &recordingDispatcher{})

	_, err := svc.Register(context.Background(), "", "no-es-correo", "123")
	assertCode(t, err, apperrors.CodeValidationFailed)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubProfileRepo(&domain.Profile{ID: "u1", Email: "dup@example.com", Rol: domain.RolCedis})
	svc := newAuthService(repo, &recordingDispatcher{})

	_, err := svc.Register(context.Background(), "Otra", "dup@example.com", "secreto1")
	assertCode(t, err, apperrors.CodeConflict)
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newAuthService(repo, &recordingDispatcher{})

	_, err := svc.Register(context.Background(), "Persona", "login@example.com", "secreto1")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "login@example.com", "secreto1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := auth.NewTokenManager("test-secret", 60).ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Profile.ID, claims.SubjectID)
	assert.Equal(t, domain.RolPendiente, claims.Rol)
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newAuthService(repo, &recordingDispatcher{})
	_, err := svc.Register(context.Background(), "Persona", "login@example.com", "secreto1")
	require.NoError(t, err)

	_, wrongPass := svc.Login(context.Background(), "login@example.com", "incorrecta")
	_, noAccount := svc.Login(context.Background(), "nadie@example.com", "incorrecta")

	assertCode(t, wrongPass, apperrors.CodeUnauthorized)
	assertCode(t, noAccount, apperrors.CodeUnauthorized)
	assert.Equal(t, wrongPass.Error(), noAccount.Error())
}

func TestChangePassword(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newAuthService(repo, &recordingDispatcher{})
	result, err := svc.Register(context.Background(), "Persona", "pw@example.com", "secreto1")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), result.Profile, "equivocada", "nuevo-secreto")
	assertCode(t, err, apperrors.CodeUnauthorized)

	err = svc.ChangePassword(context.Background(), result.Profile, "secreto1", "corta")
	assertCode(t, err, apperrors.CodeValidationFailed)

	err = svc.ChangePassword(context.Background(), result.Profile, "secreto1", "nuevo-secreto")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "pw@example.com", "nuevo-secreto")
	assert.NoError(t, err)
}

func TestUpdateNombre(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newAuthService(repo, &recordingDispatcher{})
	result, err := svc.Register(context.Background(), "Nombre Viejo", "nom@example.com", "secreto1")
	require.NoError(t, err)

	_, err = svc.UpdateNombre(context.Background(), result.Profile, "   ")
	assertCode(t, err, apperrors.CodeValidationFailed)

	updated, err := svc.UpdateNombre(context.Background(), result.Profile, "Nombre Nuevo")
	require.NoError(t, err)
	assert.Equal(t, "Nombre Nuevo", updated.NombreCompleto)
}
