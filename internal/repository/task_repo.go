package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ggd-contact/internal/domain"
)

// TaskRepository define el contrato de persistencia para contactos (tasks) de un caso.
type TaskRepository interface {
	Upsert(ctx context.Context, task domain.Task) error
	GetByID(ctx context.Context, caseID, id string) (domain.Task, error)
	ListByCase(ctx context.Context, caseID string) ([]domain.Task, error)
	MarkInformed(ctx context.Context, caseID, id string, informedAt time.Time) error
}

// PgTaskRepository implementa TaskRepository usando pgxpool.
// Las respuestas de riesgo sin responder se guardan como NULL.
type PgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgTaskRepository(pool *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{pool: pool}
}

const taskColumns = `id, case_id, label, context, source, communication,
	first_name, last_name, phone, email, date_of_last_exposure,
	same_household, distance, physical_contact, same_room,
	category, pending_risk, informed_at, created_at, updated_at`

func (r *PgTaskRepository) Upsert(ctx context.Context, task domain.Task) error {
	const query = `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			context = EXCLUDED.context,
			communication = EXCLUDED.communication,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			date_of_last_exposure = EXCLUDED.date_of_last_exposure,
			same_household = EXCLUDED.same_household,
			distance = EXCLUDED.distance,
			physical_contact = EXCLUDED.physical_contact,
			same_room = EXCLUDED.same_room,
			category = EXCLUDED.category,
			pending_risk = EXCLUDED.pending_risk,
			updated_at = EXCLUDED.updated_at
		WHERE tasks.case_id = EXCLUDED.case_id
	`
	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.CaseID,
		task.Label,
		task.Context,
		string(task.Source),
		string(task.Communication),
		task.Contact.FirstName,
		task.Contact.LastName,
		task.Contact.Phone,
		task.Contact.Email,
		task.DateOfLastExposure,
		task.Risks.SameHousehold,
		nullableString(task.Risks.Distance),
		task.Risks.PhysicalContact,
		task.Risks.SameRoom,
		nullableString(task.Category),
		nullableString(task.PendingRisk),
		task.InformedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return err
	}
	// El id ya existe en otro caso: el WHERE del upsert descarta la fila.
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgTaskRepository) GetByID(ctx context.Context, caseID, id string) (domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE case_id = $1 AND id = $2`
	t, err := scanTask(r.pool.QueryRow(ctx, query, caseID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, err
	}
	return t, err
}

func (r *PgTaskRepository) ListByCase(ctx context.Context, caseID string) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE case_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PgTaskRepository) MarkInformed(ctx context.Context, caseID, id string, informedAt time.Time) error {
	const query = `UPDATE tasks SET informed_at = $3, updated_at = $3 WHERE case_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, caseID, id, informedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		t                               domain.Task
		source, communication           string
		distance, category, pendingRisk *string
	)
	err := row.Scan(
		&t.ID,
		&t.CaseID,
		&t.Label,
		&t.Context,
		&source,
		&communication,
		&t.Contact.FirstName,
		&t.Contact.LastName,
		&t.Contact.Phone,
		&t.Contact.Email,
		&t.DateOfLastExposure,
		&t.Risks.SameHousehold,
		&distance,
		&t.Risks.PhysicalContact,
		&t.Risks.SameRoom,
		&category,
		&pendingRisk,
		&t.InformedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}

	t.Source = domain.TaskSource(source)
	t.Communication = domain.Communication(communication)
	if distance != nil {
		d := domain.Distance(*distance)
		t.Risks.Distance = &d
	}
	if category != nil {
		c := domain.Category(*category)
		t.Category = &c
	}
	if pendingRisk != nil {
		pr := domain.Risk(*pendingRisk)
		t.PendingRisk = &pr
	}
	return t, nil
}

func nullableString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
