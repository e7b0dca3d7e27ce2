package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ggd-contact/internal/domain"
)

// StaffRepository define el contrato de persistencia para personal de la GGD.
type StaffRepository interface {
	Create(ctx context.Context, staff domain.Staff) error
	GetByID(ctx context.Context, id string) (domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (domain.Staff, error)
}

type PgStaffRepository struct {
	pool *pgxpool.Pool
}

func NewPgStaffRepository(pool *pgxpool.Pool) *PgStaffRepository {
	return &PgStaffRepository{pool: pool}
}

func (r *PgStaffRepository) Create(ctx context.Context, staff domain.Staff) error {
	const query = `
		INSERT INTO staff (id, email, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		staff.ID,
		staff.Email,
		staff.DisplayName,
		staff.PasswordHash,
		staff.CreatedAt,
	)
	return err
}

func (r *PgStaffRepository) GetByID(ctx context.Context, id string) (domain.Staff, error) {
	const query = `
		SELECT id, email, display_name, password_hash, created_at
		FROM staff
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PgStaffRepository) GetByEmail(ctx context.Context, email string) (domain.Staff, error) {
	const query = `
		SELECT id, email, display_name, password_hash, created_at
		FROM staff
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *PgStaffRepository) getOne(ctx context.Context, query string, arg any) (domain.Staff, error) {
	var s domain.Staff
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&s.ID,
		&s.Email,
		&s.DisplayName,
		&s.PasswordHash,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, err
	}
	return s, err
}
