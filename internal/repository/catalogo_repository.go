package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// CatalogoRepository gives uniform access to the six reference catalogs. The
// table name is interpolated only after domain.CatalogoTabla validation.
type CatalogoRepository interface {
	List(ctx context.Context, tabla domain.CatalogoTabla, includeInactive bool) ([]domain.CatalogoItem, error)
	GetByID(ctx context.Context, tabla domain.CatalogoTabla, id string) (*domain.CatalogoItem, error)
	Create(ctx context.Context, tabla domain.CatalogoTabla, item *domain.CatalogoItem) error
	Update(ctx context.Context, tabla domain.CatalogoTabla, item *domain.CatalogoItem) error
	SetActivo(ctx context.Context, tabla domain.CatalogoTabla, id string, activo bool) error
	Delete(ctx context.Context, tabla domain.CatalogoTabla, id string) error
	ListAll(ctx context.Context) (*domain.Catalogos, error)
}

type catalogoRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogoRepository instantiates repository.
func NewCatalogoRepository(pool *pgxpool.Pool) CatalogoRepository {
	return &catalogoRepository{pool: pool}
}

var errTablaInvalida = fmt.Errorf("catálogo desconocido")

// columnExprs selects the shared columns plus NULL placeholders for the
// extras a given table does not carry, so every table scans identically.
func columnExprs(tabla domain.CatalogoTabla) string {
	descripcion := "NULL"
	colorHex := "NULL"
	abreviatura := "NULL"
	switch tabla {
	case domain.TablaProductos:
		descripcion = "descripcion"
	case domain.TablaEstatus:
		colorHex = "color_hex"
	case domain.TablaUnidades:
		abreviatura = "abreviatura"
	}
	return fmt.Sprintf("id, nombre, %s, %s, %s, activo, created_at", descripcion, colorHex, abreviatura)
}

func (r *catalogoRepository) List(ctx context.Context, tabla domain.CatalogoTabla, includeInactive bool) ([]domain.CatalogoItem, error) {
	if !tabla.Valid() {
		return nil, errTablaInvalida
	}
	query := fmt.Sprintf("SELECT %s FROM %s", columnExprs(tabla), tabla)
	if !includeInactive {
		query += " WHERE activo"
	}
	query += " ORDER BY nombre ASC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCatalogoItems(rows)
}

func (r *catalogoRepository) GetByID(ctx context.Context, tabla domain.CatalogoTabla, id string) (*domain.CatalogoItem, error) {
	if !tabla.Valid() {
		return nil, errTablaInvalida
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1", columnExprs(tabla), tabla)
	var item domain.CatalogoItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Nombre,
		&item.Descripcion,
		&item.ColorHex,
		&item.Abreviatura,
		&item.Activo,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogoRepository) Create(ctx context.Context, tabla domain.CatalogoTabla, item *domain.CatalogoItem) error {
	if !tabla.Valid() {
		return errTablaInvalida
	}
	cols := "nombre, activo"
	placeholders := "$1, $2"
	args := []any{item.Nombre, item.Activo}
	switch tabla {
	case domain.TablaProductos:
		cols += ", descripcion"
		placeholders += ", $3"
		args = append(args, item.Descripcion)
	case domain.TablaEstatus:
		cols += ", color_hex"
		placeholders += ", $3"
		args = append(args, item.ColorHex)
	case domain.TablaUnidades:
		cols += ", abreviatura"
		placeholders += ", $3"
		args = append(args, item.Abreviatura)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at", tabla, cols, placeholders)
	return r.pool.QueryRow(ctx, query, args...).Scan(&item.ID, &item.CreatedAt)
}

func (r *catalogoRepository) Update(ctx context.Context, tabla domain.CatalogoTabla, item *domain.CatalogoItem) error {
	if !tabla.Valid() {
		return errTablaInvalida
	}
	assignments := "nombre=$1, activo=$2"
	args := []any{item.Nombre, item.Activo}
	switch tabla {
	case domain.TablaProductos:
		assignments += ", descripcion=$3"
		args = append(args, item.Descripcion)
	case domain.TablaEstatus:
		assignments += ", color_hex=$3"
		args = append(args, item.ColorHex)
	case domain.TablaUnidades:
		assignments += ", abreviatura=$3"
		args = append(args, item.Abreviatura)
	}
	args = append(args, item.ID)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d", tabla, assignments, len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogoRepository) SetActivo(ctx context.Context, tabla domain.CatalogoTabla, id string, activo bool) error {
	if !tabla.Valid() {
		return errTablaInvalida
	}
	query := fmt.Sprintf("UPDATE %s SET activo=$1 WHERE id=$2", tabla)
	cmd, err := r.pool.Exec(ctx, query, activo, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete hard-removes a row. FK violations bubble up untranslated; the
// service layer turns them into the "deactivate instead" guidance.
func (r *catalogoRepository) Delete(ctx context.Context, tabla domain.CatalogoTabla, id string) error {
	if !tabla.Valid() {
		return errTablaInvalida
	}
	cmd, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1", tabla), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogoRepository) ListAll(ctx context.Context) (*domain.Catalogos, error) {
	var catalogos domain.Catalogos
	targets := []struct {
		tabla domain.CatalogoTabla
		dest  *[]domain.CatalogoItem
	}{
		{domain.TablaProveedores, &catalogos.Proveedores},
		{domain.TablaProductos, &catalogos.Productos},
		{domain.TablaPresentaciones, &catalogos.Presentaciones},
		{domain.TablaDestinos, &catalogos.Destinos},
		{domain.TablaEstatus, &catalogos.Estatus},
		{domain.TablaUnidades, &catalogos.Unidades},
	}
	for _, target := range targets {
		items, err := r.List(ctx, target.tabla, true)
		if err != nil {
			return nil, err
		}
		*target.dest = items
	}
	return &catalogos, nil
}

func scanCatalogoItems(rows pgx.Rows) ([]domain.CatalogoItem, error) {
	var result []domain.CatalogoItem
	for rows.Next() {
		var item domain.CatalogoItem
		if err := rows.Scan(
			&item.ID,
			&item.Nombre,
			&item.Descripcion,
			&item.ColorHex,
			&item.Abreviatura,
			&item.Activo,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
