package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ggd-contact/internal/domain"
)

// CaseRepository define el contrato de persistencia para casos índice.
type CaseRepository interface {
	Create(ctx context.Context, c domain.Case) error
	GetByID(ctx context.Context, id string) (domain.Case, error)
	UpdatePairingCode(ctx context.Context, id, codeHash string, expiresAt *time.Time) error
	MarkPaired(ctx context.Context, id, codeHash string, pairedAt time.Time) error
	ListPairable(ctx context.Context, now time.Time) ([]domain.Case, error)
}

// PgCaseRepository implementa CaseRepository usando pgxpool.
type PgCaseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCaseRepository(pool *pgxpool.Pool) *PgCaseRepository {
	return &PgCaseRepository{pool: pool}
}

const caseColumns = `id, reference, date_of_symptom_onset, pairing_code_hash, pairing_code_expires_at, paired_at, created_by, created_at`

func (r *PgCaseRepository) Create(ctx context.Context, c domain.Case) error {
	const query = `
		INSERT INTO cases (` + caseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Reference,
		c.DateOfSymptomOnset,
		c.PairingCodeHash,
		c.PairingCodeExpiresAt,
		c.PairedAt,
		c.CreatedBy,
		c.CreatedAt,
	)
	return err
}

func (r *PgCaseRepository) GetByID(ctx context.Context, id string) (domain.Case, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	c, err := scanCase(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Case{}, err
	}
	return c, err
}

func (r *PgCaseRepository) UpdatePairingCode(ctx context.Context, id, codeHash string, expiresAt *time.Time) error {
	const query = `
		UPDATE cases
		SET pairing_code_hash = $2, pairing_code_expires_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, codeHash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkPaired registra el emparejamiento e invalida el código en la misma sentencia.
// Solo afecta la fila si codeHash sigue siendo el código vigente; si otro
// emparejamiento o una regeneración llegó antes devuelve pgx.ErrNoRows.
func (r *PgCaseRepository) MarkPaired(ctx context.Context, id, codeHash string, pairedAt time.Time) error {
	const query = `
		UPDATE cases
		SET paired_at = $2, pairing_code_hash = '', pairing_code_expires_at = NULL
		WHERE id = $1
		  AND pairing_code_hash = $3
		  AND pairing_code_expires_at > $2
	`
	tag, err := r.pool.Exec(ctx, query, id, pairedAt, codeHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCaseRepository) ListPairable(ctx context.Context, now time.Time) ([]domain.Case, error) {
	const query = `
		SELECT ` + caseColumns + `
		FROM cases
		WHERE pairing_code_hash <> '' AND pairing_code_expires_at > $1
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func scanCase(row pgx.Row) (domain.Case, error) {
	var c domain.Case
	err := row.Scan(
		&c.ID,
		&c.Reference,
		&c.DateOfSymptomOnset,
		&c.PairingCodeHash,
		&c.PairingCodeExpiresAt,
		&c.PairedAt,
		&c.CreatedBy,
		&c.CreatedAt,
	)
	return c, err
}
