package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/events"
	"github.com/spec-kit/requisicion-service/internal/repository"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

type stubRequisicionRepo struct {
	snapshot *domain.Requisicion

	createCalls int
	updateCalls int
	deleteCalls int

	updatedRow     *domain.Requisicion
	updatedEntries []domain.RequisicionHistorial
	updateErr      error
	deleteErr      error
}

var _ repository.RequisicionRepository = (*stubRequisicionRepo)(nil)

func (s *stubRequisicionRepo) Create(ctx context.Context, req *domain.Requisicion) error {
	s.createCalls++
	req.ID = "req-nuevo"
	return nil
}

func (s *stubRequisicionRepo) GetByID(ctx context.Context, id string) (*domain.Requisicion, error) {
	if s.snapshot == nil || s.snapshot.ID != id {
		return nil, pgx.ErrNoRows
	}
	copied := *s.snapshot
	return &copied, nil
}

func (s *stubRequisicionRepo) ListWithFilter(ctx context.Context, filter domain.RequisicionFilter) ([]domain.Requisicion, error) {
	if s.snapshot == nil {
		return nil, nil
	}
	return []domain.Requisicion{*s.snapshot}, nil
}

func (s *stubRequisicionRepo) UpdateWithHistorial(ctx context.Context, req *domain.Requisicion, entries []domain.RequisicionHistorial) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedRow = req
	s.updatedEntries = entries
	return nil
}

func (s *stubRequisicionRepo) DeleteWithHistorial(ctx context.Context, id string) error {
	s.deleteCalls++
	return s.deleteErr
}

type stubHistorialRepo struct {
	entries []domain.RequisicionHistorial
}

var _ repository.HistorialRepository = (*stubHistorialRepo)(nil)

func (s *stubHistorialRepo) ListByRequisicion(ctx context.Context, requisicionID string) ([]domain.RequisicionHistorial, error) {
	return s.entries, nil
}

func (s *stubHistorialRepo) List(ctx context.Context, limit, offset int) ([]domain.RequisicionHistorial, error) {
	return s.entries, nil
}

// stubCatalogoRepo answers GetByID from a fixed map. The error fields let the
// catalog service tests simulate constraint failures.
type stubCatalogoRepo struct {
	items     map[string]domain.CatalogoItem
	deleteErr error

	deleteCalls  int
	listAllCalls int
}

var _ repository.CatalogoRepository = (*stubCatalogoRepo)(nil)

func (s *stubCatalogoRepo) GetByID(ctx context.Context, tabla domain.CatalogoTabla, id string) (*domain.CatalogoItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (s *stubCatalogoRepo) List(ctx context.Context, tabla domain.CatalogoTabla, includeInactive bool) ([]domain.CatalogoItem, error) {
	return nil, nil
}

func (s *stubCatalogoRepo) Create(ctx context.Context, tabla domain.CatalogoTabla, item *domain.CatalogoItem) error {
	return nil
}

func (s *stubCatalogoRepo) Update(ctx context.Context, tabla domain.CatalogoTabla, item *domain.CatalogoItem) error {
	return nil
}

func (s *stubCatalogoRepo) SetActivo(ctx context.Context, tabla domain.CatalogoTabla, id string, activo bool) error {
	return nil
}

func (s *stubCatalogoRepo) Delete(ctx context.Context, tabla domain.CatalogoTabla, id string) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *stubCatalogoRepo) ListAll(ctx context.Context) (*domain.Catalogos, error) {
	s.listAllCalls++
	return &domain.Catalogos{}, nil
}

type recordingDispatcher struct {
	published []events.Event
}

var _ events.Dispatcher = (*recordingDispatcher)(nil)

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func activeCatalogItems() map[string]domain.CatalogoItem {
	items := map[string]domain.CatalogoItem{}
	for _, id := range []string{"prov-1", "prod-1", "pres-1", "dest-1", "est-1", "est-2", "uni-1"} {
		items[id] = domain.CatalogoItem{ID: id, Nombre: id, Activo: true}
	}
	return items
}

func profileWithRol(rol domain.Rol) *domain.Profile {
	return &domain.Profile{ID: "user-1", NombreCompleto: "Prueba", Email: "prueba@example.com", Rol: rol}
}

func newGateway(repo *stubRequisicionRepo, historial *stubHistorialRepo, dispatcher *recordingDispatcher) *RequisicionService {
	return NewRequisicionService(RequisicionDependencies{
		RequisicionRepo: repo,
		HistorialRepo:   historial,
		CatalogoRepo:    &stubCatalogoRepo{items: activeCatalogItems()},
		Dispatcher:      dispatcher,
	})
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

func storedRequisicion() *domain.Requisicion {
	req := validCreateInput().Apply(domain.Requisicion{})
	req.ID = "req-1"
	return &req
}

func TestCreateDeniedForViewOnlyRole(t *testing.T) {
	repo := &stubRequisicionRepo{}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.Create(context.Background(), profileWithRol(domain.RolLaboratorio), validCreateInput())

	assertCode(t, err, apperrors.CodePermissionDenied)
	assert.Zero(t, repo.createCalls, "a denied mutation must not touch persistence")
}

func TestCreateWritesNoAuditEntries(t *testing.T) {
	repo := &stubRequisicionRepo{}
	dispatcher := &recordingDispatcher{}
	svc := newGateway(repo, &stubHistorialRepo{}, dispatcher)

	created, err := svc.Create(context.Background(), profileWithRol(domain.RolCoordinadora), validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, "user-1", created.CreatedBy)
	assert.Zero(t, repo.updateCalls, "creation is not diffed")
	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventRequisicionCreated, dispatcher.published[0].Type)
}

func TestUpdateDeniedForViewOnlyRoleWithoutPartialWrites(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.Update(context.Background(), profileWithRol(domain.RolCedis), "req-1",
		domain.RequisicionInput{Comentarios: strPtr("intento")})

	assertCode(t, err, apperrors.CodePermissionDenied)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdatePendienteDenied(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.Update(context.Background(), profileWithRol(domain.RolPendiente), "req-1",
		domain.RequisicionInput{Comentarios: strPtr("intento")})

	assertCode(t, err, apperrors.CodePermissionDenied)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateBuildsAuditEntriesFromDiff(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	dispatcher := &recordingDispatcher{}
	svc := newGateway(repo, &stubHistorialRepo{}, dispatcher)

	updated, err := svc.Update(context.Background(), profileWithRol(domain.RolAdmin), "req-1",
		domain.RequisicionInput{
			EstatusID:   strPtr("est-2"),
			Comentarios: strPtr("revisar lote"),
		})

	require.NoError(t, err)
	assert.Equal(t, "est-2", updated.EstatusID)
	require.NotNil(t, updated.Comentarios)

	require.Len(t, repo.updatedEntries, 2)
	assert.Equal(t, "Estatus", repo.updatedEntries[0].CampoModificado)
	assert.Equal(t, "est-1", repo.updatedEntries[0].ValorAnterior)
	assert.Equal(t, "est-2", repo.updatedEntries[0].ValorNuevo)
	assert.Equal(t, "user-1", repo.updatedEntries[0].UsuarioID)
	assert.Equal(t, "Comentarios", repo.updatedEntries[1].CampoModificado)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventRequisicionUpdated, dispatcher.published[0].Type)
}

func TestUpdateNoChangesEmitsNoEvent(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	dispatcher := &recordingDispatcher{}
	svc := newGateway(repo, &stubHistorialRepo{}, dispatcher)

	_, err := svc.Update(context.Background(), profileWithRol(domain.RolAdmin), "req-1",
		domain.RequisicionInput{EstatusID: strPtr("est-1")})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.updateCalls, "the row still persists for last-write-wins semantics")
	assert.Empty(t, repo.updatedEntries)
	assert.Empty(t, dispatcher.published)
}

func TestUpdateRejectsUnknownCatalogReference(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.Update(context.Background(), profileWithRol(domain.RolAdmin), "req-1",
		domain.RequisicionInput{EstatusID: strPtr("est-fantasma")})

	assertCode(t, err, apperrors.CodeValidationFailed)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateMissingRequisicion(t *testing.T) {
	svc := newGateway(&stubRequisicionRepo{}, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.Update(context.Background(), profileWithRol(domain.RolAdmin), "req-404",
		domain.RequisicionInput{Comentarios: strPtr("x")})

	assertCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	err := svc.Delete(context.Background(), profileWithRol(domain.RolCoordinadora), "req-1")

	assertCode(t, err, apperrors.CodePermissionDenied)
	assert.Zero(t, repo.deleteCalls)
}

func TestDeleteZeroRowsIsNotFound(t *testing.T) {
	repo := &stubRequisicionRepo{deleteErr: pgx.ErrNoRows}
	dispatcher := &recordingDispatcher{}
	svc := newGateway(repo, &stubHistorialRepo{}, dispatcher)

	err := svc.Delete(context.Background(), profileWithRol(domain.RolAdmin), "req-404")

	assertCode(t, err, apperrors.CodeNotFound)
	assert.Empty(t, dispatcher.published)
}

func TestGetDeniedForPendiente(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.Get(context.Background(), profileWithRol(domain.RolPendiente), "req-1")
	assertCode(t, err, apperrors.CodePermissionDenied)
}

func TestViewOnlyRoleCanRead(t *testing.T) {
	repo := &stubRequisicionRepo{snapshot: storedRequisicion()}
	svc := newGateway(repo, &stubHistorialRepo{}, &recordingDispatcher{})

	req, err := svc.Get(context.Background(), profileWithRol(domain.RolCedis), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", req.ID)

	list, err := svc.List(context.Background(), profileWithRol(domain.RolLaboratorio), domain.RequisicionFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListHistorialGlobalRequiresAdminAccess(t *testing.T) {
	svc := newGateway(&stubRequisicionRepo{}, &stubHistorialRepo{}, &recordingDispatcher{})

	_, err := svc.ListHistorialGlobal(context.Background(), profileWithRol(domain.RolCedis), 50, 0)
	assertCode(t, err, apperrors.CodePermissionDenied)

	_, err = svc.ListHistorialGlobal(context.Background(), profileWithRol(domain.RolCoordinadora), 50, 0)
	assert.NoError(t, err)
}

func TestUpdateAllowsKeepingInactiveReference(t *testing.T) {
	snapshot := storedRequisicion()
	repo := &stubRequisicionRepo{snapshot: snapshot}
	items := activeCatalogItems()
	items["prov-1"] = domain.CatalogoItem{ID: "prov-1", Nombre: "prov-1", Activo: false}
	svc := NewRequisicionService(RequisicionDependencies{
		RequisicionRepo: repo,
		HistorialRepo:   &stubHistorialRepo{},
		CatalogoRepo:    &stubCatalogoRepo{items: items},
		Dispatcher:      &recordingDispatcher{},
	})

	// resubmitting the already-referenced inactive proveedor is allowed
	_, err := svc.Update(context.Background(), profileWithRol(domain.RolAdmin), "req-1",
		domain.RequisicionInput{ProveedorID: strPtr("prov-1"), Comentarios: strPtr("sin cambio de proveedor")})
	require.NoError(t, err)

	// but a different requisicion cannot newly select it
	_, err = svc.Create(context.Background(), profileWithRol(domain.RolAdmin), validCreateInput())
	assertCode(t, err, apperrors.CodeValidationFailed)
}
