package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// HistorialRepository reads the append-only audit trail. Writes happen only
// inside RequisicionRepository.UpdateWithHistorial; nothing updates or deletes
// entries directly.
type HistorialRepository interface {
	ListByRequisicion(ctx context.Context, requisicionID string) ([]domain.RequisicionHistorial, error)
	List(ctx context.Context, limit, offset int) ([]domain.RequisicionHistorial, error)
}

type historialRepository struct {
	pool *pgxpool.Pool
}

// NewHistorialRepository builds repository.
func NewHistorialRepository(pool *pgxpool.Pool) HistorialRepository {
	return &historialRepository{pool: pool}
}

func (r *historialRepository) ListByRequisicion(ctx context.Context, requisicionID string) ([]domain.RequisicionHistorial, error) {
	const query = `
        SELECT id, requisicion_id, campo_modificado, valor_anterior, valor_nuevo, usuario_id, created_at
        FROM requisiciones_historial WHERE requisicion_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, requisicionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistorial(rows)
}

func (r *historialRepository) List(ctx context.Context, limit, offset int) ([]domain.RequisicionHistorial, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, requisicion_id, campo_modificado, valor_anterior, valor_nuevo, usuario_id, created_at
        FROM requisiciones_historial ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistorial(rows)
}

func scanHistorial(rows pgx.Rows) ([]domain.RequisicionHistorial, error) {
	var result []domain.RequisicionHistorial
	for rows.Next() {
		var entry domain.RequisicionHistorial
		if err := rows.Scan(
			&entry.ID,
			&entry.RequisicionID,
			&entry.CampoModificado,
			&entry.ValorAnterior,
			&entry.ValorNuevo,
			&entry.UsuarioID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
