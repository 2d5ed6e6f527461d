package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/requisicion-service/internal/domain"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

func newCatalogoService(repo *stubCatalogoRepo) *CatalogoService {
	return NewCatalogoService(repo, nil, 0, zap.NewNop())
}

func TestCatalogoMutationsRequireAdminAccess(t *testing.T) {
	repo := &stubCatalogoRepo{items: activeCatalogItems()}
	svc := newCatalogoService(repo)

	item := domain.CatalogoItem{Nombre: "Proveedor Nuevo"}
	_, err := svc.Create(context.Background(), profileWithRol(domain.RolCedis), domain.TablaProveedores, &item)
	assertCode(t, err, apperrors.CodePermissionDenied)

	err = svc.SetActivo(context.Background(), profileWithRol(domain.RolLaboratorio), domain.TablaProveedores, "prov-1", false)
	assertCode(t, err, apperrors.CodePermissionDenied)
}

func TestCatalogoCreateValidation(t *testing.T) {
	svc := newCatalogoService(&stubCatalogoRepo{items: activeCatalogItems()})

	item := domain.CatalogoItem{Nombre: "   "}
	_, err := svc.Create(context.Background(), profileWithRol(domain.RolCoordinadora), domain.TablaDestinos, &item)
	assertCode(t, err, apperrors.CodeValidationFailed)
}

func TestCatalogoUnknownTable(t *testing.T) {
	svc := newCatalogoService(&stubCatalogoRepo{items: activeCatalogItems()})

	item := domain.CatalogoItem{Nombre: "x"}
	_, err := svc.Create(context.Background(), profileWithRol(domain.RolAdmin), domain.CatalogoTabla("clientes"), &item)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCatalogoDeleteTranslatesForeignKeyViolation(t *testing.T) {
	repo := &stubCatalogoRepo{
		items:     activeCatalogItems(),
		deleteErr: &pgconn.PgError{Code: "23503", ConstraintName: "requisiciones_proveedor_id_fkey"},
	}
	svc := newCatalogoService(repo)

	err := svc.Delete(context.Background(), profileWithRol(domain.RolAdmin), domain.TablaProveedores, "prov-1")

	assertCode(t, err, apperrors.CodeConflict)
	domainErr := apperrors.ToDomainError(err)
	assert.Contains(t, domainErr.Message, "desactivarlo", "the user gets guidance, not a raw constraint message")
}

func TestCatalogoDeleteRequiresAdminRole(t *testing.T) {
	repo := &stubCatalogoRepo{items: activeCatalogItems()}
	svc := newCatalogoService(repo)

	// coordinadora has admin access but not delete
	err := svc.Delete(context.Background(), profileWithRol(domain.RolCoordinadora), domain.TablaProveedores, "prov-1")
	assertCode(t, err, apperrors.CodePermissionDenied)
	assert.Zero(t, repo.deleteCalls)
}

func TestCatalogoDeleteMissingRow(t *testing.T) {
	repo := &stubCatalogoRepo{items: activeCatalogItems(), deleteErr: pgx.ErrNoRows}
	svc := newCatalogoService(repo)

	err := svc.Delete(context.Background(), profileWithRol(domain.RolAdmin), domain.TablaProveedores, "prov-404")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCatalogoListAllSkipsCacheWhenUnconfigured(t *testing.T) {
	repo := &stubCatalogoRepo{items: activeCatalogItems()}
	svc := newCatalogoService(repo)

	_, err := svc.ListAll(context.Background(), profileWithRol(domain.RolCedis))
	require.NoError(t, err)
	_, err = svc.ListAll(context.Background(), profileWithRol(domain.RolCedis))
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listAllCalls)

	_, err = svc.ListAll(context.Background(), profileWithRol(domain.RolPendiente))
	assertCode(t, err, apperrors.CodePermissionDenied)
}

func TestCatalogoUpdatePreservesActivo(t *testing.T) {
	items := activeCatalogItems()
	items["prov-1"] = domain.CatalogoItem{ID: "prov-1", Nombre: "Proveedor Uno", Activo: false}
	svc := newCatalogoService(&stubCatalogoRepo{items: items})

	item := domain.CatalogoItem{ID: "prov-1", Nombre: "Proveedor Uno SA"}
	updated, err := svc.Update(context.Background(), profileWithRol(domain.RolAdmin), domain.TablaProveedores, &item)

	require.NoError(t, err)
	assert.False(t, updated.Activo, "renaming a row does not reactivate it")
}
