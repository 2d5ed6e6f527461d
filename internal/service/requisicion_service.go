package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/requisicion-service/internal/audit"
	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/events"
	"github.com/spec-kit/requisicion-service/internal/repository"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

// RequisicionService is the single choke point for requisicion mutations:
// every create/update/delete checks the role policy before touching
// persistence. Concurrent edits are last-write-wins; the audit diff is
// computed against the snapshot fetched at update time.
type RequisicionService struct {
	requisiciones repository.RequisicionRepository
	historial     repository.HistorialRepository
	catalogos     repository.CatalogoRepository
	dispatcher    events.Dispatcher
}

// RequisicionDependencies bundles repositories for the gateway.
type RequisicionDependencies struct {
	RequisicionRepo repository.RequisicionRepository
	HistorialRepo   repository.HistorialRepository
	CatalogoRepo    repository.CatalogoRepository
	Dispatcher      events.Dispatcher
}

// NewRequisicionService constructs the service.
func NewRequisicionService(deps RequisicionDependencies) *RequisicionService {
	return &RequisicionService{
		requisiciones: deps.RequisicionRepo,
		historial:     deps.HistorialRepo,
		catalogos:     deps.CatalogoRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// Create inserts a new requisicion. Creation is not diffed: no audit entries.
func (s *RequisicionService) Create(ctx context.Context, actor *domain.Profile, input domain.RequisicionInput) (*domain.Requisicion, error) {
	if !actor.Capabilities().CanCreate {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para crear requisiciones")
	}

	if errs := ValidateRequisicion(input, ModeCreate, actor.Capabilities(), nil); len(errs) > 0 {
		return nil, apperrors.NewValidationFailed(errs)
	}
	if err := s.checkCatalogRefs(ctx, input, nil); err != nil {
		return nil, err
	}

	req := input.Apply(domain.Requisicion{})
	req.CreatedBy = actor.ID

	if err := s.requisiciones.Create(ctx, &req); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventRequisicionCreated,
		EntityID: req.ID,
		ActorID:  actor.ID,
		Payload: events.RequisicionCreatedPayload{
			ProveedorID:    req.ProveedorID,
			ProductoID:     req.ProductoID,
			FechaRecepcion: req.FechaRecepcion,
			EstatusID:      req.EstatusID,
		},
	})
	return &req, nil
}

// Update applies a partial payload. It fetches the current snapshot first,
// validates (including the fecha_confirmada role gate), then persists the row
// together with one audit entry per changed field in a single transaction.
func (s *RequisicionService) Update(ctx context.Context, actor *domain.Profile, id string, input domain.RequisicionInput) (*domain.Requisicion, error) {
	if !actor.Capabilities().CanEdit {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para editar requisiciones")
	}

	snapshot, err := s.requisiciones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("requisición", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if errs := ValidateRequisicion(input, ModeUpdate, actor.Capabilities(), snapshot); len(errs) > 0 {
		return nil, apperrors.NewValidationFailed(errs)
	}
	if err := s.checkCatalogRefs(ctx, input, snapshot); err != nil {
		return nil, err
	}

	cambios := audit.Diff(snapshot, input)
	entries := make([]domain.RequisicionHistorial, 0, len(cambios))
	for _, cambio := range cambios {
		entries = append(entries, domain.RequisicionHistorial{
			RequisicionID:   id,
			CampoModificado: cambio.Campo,
			ValorAnterior:   cambio.Anterior,
			ValorNuevo:      cambio.Nuevo,
			UsuarioID:       actor.ID,
		})
	}

	updated := input.Apply(*snapshot)
	if err := s.requisiciones.UpdateWithHistorial(ctx, &updated, entries); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("requisición", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if len(cambios) > 0 {
		labels := make([]string, 0, len(cambios))
		for _, cambio := range cambios {
			labels = append(labels, cambio.Campo)
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventRequisicionUpdated,
			EntityID: id,
			ActorID:  actor.ID,
			Payload:  events.RequisicionUpdatedPayload{CamposModificados: labels},
		})
	}
	return &updated, nil
}

// Delete removes a requisicion and its audit rows. Zero rows affected is
// reported as not-found, never as success: it usually means a stale id or a
// delete silently denied by the persistence layer.
func (s *RequisicionService) Delete(ctx context.Context, actor *domain.Profile, id string) error {
	if !actor.Capabilities().CanDelete {
		return apperrors.NewPermissionDenied("solo el administrador puede eliminar requisiciones")
	}

	if err := s.requisiciones.DeleteWithHistorial(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("requisición", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventRequisicionDeleted,
		EntityID: id,
		ActorID:  actor.ID,
		Payload:  events.RequisicionDeletedPayload{RequisicionID: id},
	})
	return nil
}

// Get fetches a single requisicion for any operating role.
func (s *RequisicionService) Get(ctx context.Context, actor *domain.Profile, id string) (*domain.Requisicion, error) {
	if !actor.Capabilities().CanView() {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para consultar requisiciones")
	}
	req, err := s.requisiciones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("requisición", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

// List returns requisiciones matching the filter, ordered by fecha_recepcion.
func (s *RequisicionService) List(ctx context.Context, actor *domain.Profile, filter domain.RequisicionFilter) ([]domain.Requisicion, error) {
	if !actor.Capabilities().CanView() {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para consultar requisiciones")
	}
	result, err := s.requisiciones.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListHistorial returns the audit trail for one requisicion, newest first.
func (s *RequisicionService) ListHistorial(ctx context.Context, actor *domain.Profile, requisicionID string) ([]domain.RequisicionHistorial, error) {
	if !actor.Capabilities().CanView() {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para consultar el historial")
	}
	if _, err := s.requisiciones.GetByID(ctx, requisicionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("requisición", map[string]any{"id": requisicionID})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.historial.ListByRequisicion(ctx, requisicionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListHistorialGlobal returns the cross-requisicion audit feed for the admin
// screen.
func (s *RequisicionService) ListHistorialGlobal(ctx context.Context, actor *domain.Profile, limit, offset int) ([]domain.RequisicionHistorial, error) {
	if !actor.Capabilities().CanAccessAdmin {
		return nil, apperrors.NewPermissionDenied("no tienes acceso al panel de administración")
	}
	entries, err := s.historial.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// checkCatalogRefs verifies every provided catalog reference. A row must be
// active unless it is the value the requisicion already holds: an inactive
// row stays selectable where it is already referenced.
func (s *RequisicionService) checkCatalogRefs(ctx context.Context, input domain.RequisicionInput, current *domain.Requisicion) error {
	refs := []struct {
		field   string
		tabla   domain.CatalogoTabla
		value   *string
		existing string
	}{
		{"proveedor_id", domain.TablaProveedores, input.ProveedorID, currentRef(current, func(r *domain.Requisicion) string { return r.ProveedorID })},
		{"producto_id", domain.TablaProductos, input.ProductoID, currentRef(current, func(r *domain.Requisicion) string { return r.ProductoID })},
		{"presentacion_id", domain.TablaPresentaciones, input.PresentacionID, currentRef(current, func(r *domain.Requisicion) string { return r.PresentacionID })},
		{"destino_id", domain.TablaDestinos, input.DestinoID, currentRef(current, func(r *domain.Requisicion) string { return r.DestinoID })},
		{"estatus_id", domain.TablaEstatus, input.EstatusID, currentRef(current, func(r *domain.Requisicion) string { return r.EstatusID })},
		{"unidad_cantidad_id", domain.TablaUnidades, input.UnidadCantidadID, currentRef(current, func(r *domain.Requisicion) string { return r.UnidadCantidadID })},
	}

	var errs []apperrors.FieldError
	for _, ref := range refs {
		if ref.value == nil || *ref.value == "" {
			continue
		}
		item, err := s.catalogos.GetByID(ctx, ref.tabla, *ref.value)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				errs = append(errs, apperrors.FieldError{Field: ref.field, Message: "Referencia de catálogo inexistente"})
				continue
			}
			return apperrors.MapError(err)
		}
		if !item.Activo && *ref.value != ref.existing {
			errs = append(errs, apperrors.FieldError{Field: ref.field, Message: "El registro del catálogo está inactivo"})
		}
	}
	if len(errs) > 0 {
		return apperrors.NewValidationFailed(errs)
	}
	return nil
}

func currentRef(current *domain.Requisicion, get func(*domain.Requisicion) string) string {
	if current == nil {
		return ""
	}
	return get(current)
}

func (s *RequisicionService) publishEvent(ctx context.Context, event events.Event) {
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
