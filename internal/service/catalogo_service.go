package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/repository"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

const catalogosCacheKey = "catalogos:all"

// CatalogoService manages the six reference catalogs behind the requisicion
// form. The aggregated read is cached in Redis; any mutation invalidates it.
type CatalogoService struct {
	catalogos repository.CatalogoRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewCatalogoService constructs the service. cache may be nil, in which case
// every aggregated read hits Postgres.
func NewCatalogoService(catalogos repository.CatalogoRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CatalogoService {
	return &CatalogoService{catalogos: catalogos, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ListAll returns every catalog, active and inactive rows alike: the form
// grays out inactive options instead of hiding them.
func (s *CatalogoService) ListAll(ctx context.Context, actor *domain.Profile) (*domain.Catalogos, error) {
	if !actor.Capabilities().CanView() {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para consultar los catálogos")
	}

	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	catalogos, err := s.catalogos.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.writeCache(ctx, catalogos)
	return catalogos, nil
}

// List returns one catalog's rows.
func (s *CatalogoService) List(ctx context.Context, actor *domain.Profile, tabla domain.CatalogoTabla, includeInactive bool) ([]domain.CatalogoItem, error) {
	if !actor.Capabilities().CanView() {
		return nil, apperrors.NewPermissionDenied("no tienes permisos para consultar los catálogos")
	}
	if !tabla.Valid() {
		return nil, apperrors.NewNotFound("catálogo", map[string]any{"tabla": tabla})
	}
	items, err := s.catalogos.List(ctx, tabla, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Create adds a catalog row. Admin surface only.
func (s *CatalogoService) Create(ctx context.Context, actor *domain.Profile, tabla domain.CatalogoTabla, item *domain.CatalogoItem) (*domain.CatalogoItem, error) {
	if err := s.checkAdmin(actor, tabla); err != nil {
		return nil, err
	}
	if err := validateCatalogoItem(item); err != nil {
		return nil, err
	}
	item.Activo = true
	if err := s.catalogos.Create(ctx, tabla, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return item, nil
}

// Update edits a catalog row's fields. The activo flag is untouched here;
// SetActivo is the only toggle path.
func (s *CatalogoService) Update(ctx context.Context, actor *domain.Profile, tabla domain.CatalogoTabla, item *domain.CatalogoItem) (*domain.CatalogoItem, error) {
	if err := s.checkAdmin(actor, tabla); err != nil {
		return nil, err
	}
	if err := validateCatalogoItem(item); err != nil {
		return nil, err
	}
	existing, err := s.catalogos.GetByID(ctx, tabla, item.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("registro de catálogo", map[string]any{"id": item.ID})
		}
		return nil, apperrors.MapError(err)
	}
	item.Activo = existing.Activo
	item.CreatedAt = existing.CreatedAt
	if err := s.catalogos.Update(ctx, tabla, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("registro de catálogo", map[string]any{"id": item.ID})
		}
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return item, nil
}

// SetActivo toggles a row without deleting it. Deactivation is the safe
// alternative to deletion for rows referenced by requisiciones.
func (s *CatalogoService) SetActivo(ctx context.Context, actor *domain.Profile, tabla domain.CatalogoTabla, id string, activo bool) error {
	if err := s.checkAdmin(actor, tabla); err != nil {
		return err
	}
	if err := s.catalogos.SetActivo(ctx, tabla, id, activo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("registro de catálogo", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return nil
}

// Delete hard-removes a row. An FK violation comes back as guidance to
// deactivate instead, never as a raw constraint message.
func (s *CatalogoService) Delete(ctx context.Context, actor *domain.Profile, tabla domain.CatalogoTabla, id string) error {
	if !actor.Capabilities().CanDelete {
		return apperrors.NewPermissionDenied("solo el administrador puede eliminar registros de catálogo")
	}
	if !tabla.Valid() {
		return apperrors.NewNotFound("catálogo", map[string]any{"tabla": tabla})
	}
	if err := s.catalogos.Delete(ctx, tabla, id); err != nil {
		return apperrors.TranslateDeleteError(err, "registro de catálogo")
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogoService) checkAdmin(actor *domain.Profile, tabla domain.CatalogoTabla) error {
	if !actor.Capabilities().CanAccessAdmin {
		return apperrors.NewPermissionDenied("no tienes acceso al panel de administración")
	}
	if !tabla.Valid() {
		return apperrors.NewNotFound("catálogo", map[string]any{"tabla": tabla})
	}
	return nil
}

func validateCatalogoItem(item *domain.CatalogoItem) error {
	if strings.TrimSpace(item.Nombre) == "" {
		return apperrors.NewValidationFailed([]apperrors.FieldError{
			{Field: "nombre", Message: "El nombre es requerido"},
		})
	}
	return nil
}

// Cache reads are best-effort. A Redis failure degrades to Postgres reads and
// a warning, never to a request error.
func (s *CatalogoService) readCache(ctx context.Context) *domain.Catalogos {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, catalogosCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("catalogos cache read failed", zap.Error(err))
		}
		return nil
	}
	var catalogos domain.Catalogos
	if err := json.Unmarshal(raw, &catalogos); err != nil {
		return nil
	}
	return &catalogos
}

func (s *CatalogoService) writeCache(ctx context.Context, catalogos *domain.Catalogos) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(catalogos)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, catalogosCacheKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("catalogos cache write failed", zap.Error(err))
	}
}

func (s *CatalogoService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogosCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("catalogos cache invalidation failed", zap.Error(err))
	}
}
