package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/requisicion-service/internal/domain"
)

// ProfileRepository defines persistence access for application accounts.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	UpdateRol(ctx context.Context, id string, rol domain.Rol) error
	Delete(ctx context.Context, id string) error
	ListByRol(ctx context.Context, rol domain.Rol) ([]domain.Profile, error)
	ListOperating(ctx context.Context) ([]domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (nombre_completo, email, password_hash, rol)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.NombreCompleto,
		profile.Email,
		profile.PasswordHash,
		profile.Rol,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT id, nombre_completo, email, password_hash, rol, created_at, updated_at
        FROM profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	const query = `
        SELECT id, nombre_completo, email, password_hash, rol, created_at, updated_at
        FROM profiles WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *profileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.NombreCompleto,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Rol,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	const query = `
        UPDATE profiles SET nombre_completo=$1, email=$2, password_hash=$3, rol=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		profile.NombreCompleto,
		profile.Email,
		profile.PasswordHash,
		profile.Rol,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) UpdateRol(ctx context.Context, id string, rol domain.Rol) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE profiles SET rol=$1, updated_at=NOW() WHERE id=$2`, rol, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete hard-removes the account row, identity included. Rejected pendiente
// users are unrecoverable afterwards.
func (r *profileRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) ListByRol(ctx context.Context, rol domain.Rol) ([]domain.Profile, error) {
	const query = `
        SELECT id, nombre_completo, email, password_hash, rol, created_at, updated_at
        FROM profiles WHERE rol=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, rol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *profileRepository) ListOperating(ctx context.Context) ([]domain.Profile, error) {
	const query = `
        SELECT id, nombre_completo, email, password_hash, rol, created_at, updated_at
        FROM profiles WHERE rol <> $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, domain.RolPendiente)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	var result []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.NombreCompleto,
			&profile.Email,
			&profile.PasswordHash,
			&profile.Rol,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
