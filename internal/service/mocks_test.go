package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/email"
)

type mockCaseRepo struct {
	mu    sync.Mutex
	cases map[string]domain.Case
	err   error
}

func newMockCaseRepo() *mockCaseRepo {
	return &mockCaseRepo{cases: make(map[string]domain.Case)}
}

func (m *mockCaseRepo) Create(_ context.Context, c domain.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cases[c.ID] = c
	return nil
}

func (m *mockCaseRepo) GetByID(_ context.Context, id string) (domain.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return domain.Case{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCaseRepo) UpdatePairingCode(_ context.Context, id, codeHash string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.PairingCodeHash = codeHash
	c.PairingCodeExpiresAt = expiresAt
	m.cases[id] = c
	return nil
}

// MarkPaired replica la condición del UPDATE: solo el código vigente y sin expirar.
func (m *mockCaseRepo) MarkPaired(_ context.Context, id, codeHash string, pairedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok || c.PairingCodeHash != codeHash || !c.IsPairable(pairedAt) {
		return pgx.ErrNoRows
	}
	c.PairedAt = &pairedAt
	c.PairingCodeHash = ""
	c.PairingCodeExpiresAt = nil
	m.cases[id] = c
	return nil
}

func (m *mockCaseRepo) ListPairable(_ context.Context, now time.Time) ([]domain.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Case
	for _, c := range m.cases {
		if c.IsPairable(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

// staleListCaseRepo devuelve siempre la lista de casos emparejables tomada al
// crearlo, como dos pedidos que leyeron antes de que el otro escribiera.
type staleListCaseRepo struct {
	*mockCaseRepo
	snapshot []domain.Case
}

func newStaleListCaseRepo(repo *mockCaseRepo, now time.Time) *staleListCaseRepo {
	snapshot, _ := repo.ListPairable(context.Background(), now)
	return &staleListCaseRepo{mockCaseRepo: repo, snapshot: snapshot}
}

func (r *staleListCaseRepo) ListPairable(_ context.Context, _ time.Time) ([]domain.Case, error) {
	return append([]domain.Case(nil), r.snapshot...), nil
}

type mockTaskRepo struct {
	tasks map[string]domain.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]domain.Task)}
}

func (m *mockTaskRepo) Upsert(_ context.Context, task domain.Task) error {
	if existing, ok := m.tasks[task.ID]; ok && existing.CaseID != task.CaseID {
		return pgx.ErrNoRows
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, caseID, id string) (domain.Task, error) {
	t, ok := m.tasks[id]
	if !ok || t.CaseID != caseID {
		return domain.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *mockTaskRepo) ListByCase(_ context.Context, caseID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range m.tasks {
		if t.CaseID == caseID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) MarkInformed(_ context.Context, caseID, id string, informedAt time.Time) error {
	t, ok := m.tasks[id]
	if !ok || t.CaseID != caseID {
		return pgx.ErrNoRows
	}
	t.InformedAt = &informedAt
	m.tasks[id] = t
	return nil
}

type mockStaffRepo struct {
	byID    map[string]domain.Staff
	byEmail map[string]string
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{byID: make(map[string]domain.Staff), byEmail: make(map[string]string)}
}

func (m *mockStaffRepo) Create(_ context.Context, s domain.Staff) error {
	m.byID[s.ID] = s
	m.byEmail[s.Email] = s.ID
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (domain.Staff, error) {
	s, ok := m.byID[id]
	if !ok {
		return domain.Staff{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockStaffRepo) GetByEmail(ctx context.Context, email string) (domain.Staff, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.Staff{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

type mockSender struct {
	last  email.ExposureNotice
	calls int
	err   error
}

func (m *mockSender) SendExposureNotice(_ context.Context, notice email.ExposureNotice) error {
	m.calls++
	m.last = notice
	return m.err
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }
