package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// RequisicionRepository encapsulates requisicion persistence. Update and
// delete pair the row mutation with its audit entries inside one transaction.
type RequisicionRepository interface {
	Create(ctx context.Context, req *domain.Requisicion) error
	GetByID(ctx context.Context, id string) (*domain.Requisicion, error)
	ListWithFilter(ctx context.Context, filter domain.RequisicionFilter) ([]domain.Requisicion, error)
	UpdateWithHistorial(ctx context.Context, req *domain.Requisicion, entries []domain.RequisicionHistorial) error
	DeleteWithHistorial(ctx context.Context, id string) error
}

const requisicionColumns = `
        id, fecha_recepcion::text, proveedor_id, producto_id, presentacion_id, destino_id,
        estatus_id, cantidad_solicitada, unidad_cantidad_id, numero_oc, requisicion_numero,
        fecha_oc::text, fecha_solicitada_entrega::text, fecha_confirmada::text,
        fecha_entregado::text, cantidad_entregada, factura_remision, comentarios,
        created_by, created_at, updated_at`

type requisicionRepository struct {
	pool *pgxpool.Pool
}

// NewRequisicionRepository instantiates repository.
func NewRequisicionRepository(pool *pgxpool.Pool) RequisicionRepository {
	return &requisicionRepository{pool: pool}
}

func (r *requisicionRepository) Create(ctx context.Context, req *domain.Requisicion) error {
	const query = `
        INSERT INTO requisiciones (fecha_recepcion, proveedor_id, producto_id, presentacion_id,
            destino_id, estatus_id, cantidad_solicitada, unidad_cantidad_id, numero_oc,
            requisicion_numero, fecha_oc, fecha_solicitada_entrega, fecha_confirmada,
            fecha_entregado, cantidad_entregada, factura_remision, comentarios, created_by)
        VALUES ($1::date,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::date,$12::date,$13::date,$14::date,$15,$16,$17,$18)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.FechaRecepcion,
		req.ProveedorID,
		req.ProductoID,
		req.PresentacionID,
		req.DestinoID,
		req.EstatusID,
		req.CantidadSolicitada,
		req.UnidadCantidadID,
		req.NumeroOC,
		req.RequisicionNumero,
		req.FechaOC,
		req.FechaSolicitadaEntrega,
		req.FechaConfirmada,
		req.FechaEntregado,
		req.CantidadEntregada,
		req.FacturaRemision,
		req.Comentarios,
		req.CreatedBy,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *requisicionRepository) GetByID(ctx context.Context, id string) (*domain.Requisicion, error) {
	query := `SELECT` + requisicionColumns + ` FROM requisiciones WHERE id=$1`
	var req domain.Requisicion
	if err := scanRequisicion(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisicionRepository) ListWithFilter(ctx context.Context, filter domain.RequisicionFilter) ([]domain.Requisicion, error) {
	base := `SELECT` + requisicionColumns + ` FROM requisiciones`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ProveedorID != nil {
		args = append(args, *filter.ProveedorID)
		clauses = append(clauses, fmt.Sprintf("proveedor_id=$%d", len(args)))
	}
	if filter.DestinoID != nil {
		args = append(args, *filter.DestinoID)
		clauses = append(clauses, fmt.Sprintf("destino_id=$%d", len(args)))
	}
	if filter.EstatusID != nil {
		args = append(args, *filter.EstatusID)
		clauses = append(clauses, fmt.Sprintf("estatus_id=$%d", len(args)))
	}
	if filter.FechaDesde != nil {
		args = append(args, *filter.FechaDesde)
		clauses = append(clauses, fmt.Sprintf("fecha_recepcion >= $%d::date", len(args)))
	}
	if filter.FechaHasta != nil {
		args = append(args, *filter.FechaHasta)
		clauses = append(clauses, fmt.Sprintf("fecha_recepcion <= $%d::date", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY fecha_recepcion ASC", base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Requisicion
	for rows.Next() {
		var req domain.Requisicion
		if err := scanRequisicion(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

// UpdateWithHistorial persists the row and its audit entries atomically. A
// crash can no longer leave the requisicion updated with the trail missing.
func (r *requisicionRepository) UpdateWithHistorial(ctx context.Context, req *domain.Requisicion, entries []domain.RequisicionHistorial) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const update = `
        UPDATE requisiciones SET fecha_recepcion=$1::date, proveedor_id=$2, producto_id=$3,
            presentacion_id=$4, destino_id=$5, estatus_id=$6, cantidad_solicitada=$7,
            unidad_cantidad_id=$8, numero_oc=$9, requisicion_numero=$10, fecha_oc=$11::date,
            fecha_solicitada_entrega=$12::date, fecha_confirmada=$13::date,
            fecha_entregado=$14::date, cantidad_entregada=$15, factura_remision=$16,
            comentarios=$17, updated_at=NOW()
        WHERE id=$18`
	cmd, err := tx.Exec(ctx, update,
		req.FechaRecepcion,
		req.ProveedorID,
		req.ProductoID,
		req.PresentacionID,
		req.DestinoID,
		req.EstatusID,
		req.CantidadSolicitada,
		req.UnidadCantidadID,
		req.NumeroOC,
		req.RequisicionNumero,
		req.FechaOC,
		req.FechaSolicitadaEntrega,
		req.FechaConfirmada,
		req.FechaEntregado,
		req.CantidadEntregada,
		req.FacturaRemision,
		req.Comentarios,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertHistorial = `
        INSERT INTO requisiciones_historial (requisicion_id, campo_modificado, valor_anterior, valor_nuevo, usuario_id)
        VALUES ($1,$2,$3,$4,$5)`
	for _, entry := range entries {
		if _, err := tx.Exec(ctx, insertHistorial,
			entry.RequisicionID,
			entry.CampoModificado,
			entry.ValorAnterior,
			entry.ValorNuevo,
			entry.UsuarioID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteWithHistorial removes the audit rows first, then the requisicion, in
// one transaction. Zero rows affected surfaces as pgx.ErrNoRows.
func (r *requisicionRepository) DeleteWithHistorial(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM requisiciones_historial WHERE requisicion_id=$1`, id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM requisiciones WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func scanRequisicion(row pgx.Row, req *domain.Requisicion) error {
	return row.Scan(
		&req.ID,
		&req.FechaRecepcion,
		&req.ProveedorID,
		&req.ProductoID,
		&req.PresentacionID,
		&req.DestinoID,
		&req.EstatusID,
		&req.CantidadSolicitada,
		&req.UnidadCantidadID,
		&req.NumeroOC,
		&req.RequisicionNumero,
		&req.FechaOC,
		&req.FechaSolicitadaEntrega,
		&req.FechaConfirmada,
		&req.FechaEntregado,
		&req.CantidadEntregada,
		&req.FacturaRemision,
		&req.Comentarios,
		&req.CreatedBy,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
}
