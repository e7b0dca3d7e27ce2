package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/email"
	"ggd-contact/internal/service"
)

type mockCaseRepo struct {
	mu    sync.Mutex
	cases map[string]domain.Case
}

func (m *mockCaseRepo) Create(_ context.Context, c domain.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *mockCaseRepo) UpdatePairingCode(_ context.Context, id, hash string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.PairingCodeHash, c.PairingCodeExpiresAt = hash, expiresAt
	m.cases[id] = c
	return nil
}

func (m *mockCaseRepo) MarkPaired(_ context.Context, id, codeHash string, pairedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok || c.PairingCodeHash != codeHash || !c.IsPairable(pairedAt) {
		return pgx.ErrNoRows
	}
	c.PairedAt = &pairedAt
	c.PairingCodeHash, c.PairingCodeExpiresAt = "", nil
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

type mockTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
}

func (m *mockTaskRepo) Upsert(_ context.Context, t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.tasks[t.ID]; ok && existing.CaseID != t.CaseID {
		return pgx.ErrNoRows
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, caseID, id string) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.CaseID != caseID {
		return domain.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *mockTaskRepo) ListByCase(_ context.Context, caseID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if t.CaseID == caseID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) MarkInformed(_ context.Context, caseID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.CaseID != caseID {
		return pgx.ErrNoRows
	}
	t.InformedAt = &at
	m.tasks[id] = t
	return nil
}

type mockStaffRepo struct {
	byEmail map[string]domain.Staff
}

func (m *mockStaffRepo) Create(_ context.Context, s domain.Staff) error {
	m.byEmail[s.Email] = s
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (domain.Staff, error) {
	for _, s := range m.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Staff{}, pgx.ErrNoRows
}

func (m *mockStaffRepo) GetByEmail(_ context.Context, email string) (domain.Staff, error) {
	s, ok := m.byEmail[email]
	if !ok {
		return domain.Staff{}, pgx.ErrNoRows
	}
	return s, nil
}

type mockEmailSender struct {
	notices []email.ExposureNotice
	err     error
}

func (m *mockEmailSender) SendExposureNotice(_ context.Context, n email.ExposureNotice) error {
	m.notices = append(m.notices, n)
	return m.err
}

type testEnv struct {
	router *gin.Engine
	tokens *service.TokenService
	staff  *service.StaffService
	cases  *mockCaseRepo
	tasks  *mockTaskRepo
	sender *mockEmailSender
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	caseRepo := &mockCaseRepo{cases: make(map[string]domain.Case)}
	taskRepo := &mockTaskRepo{tasks: make(map[string]domain.Task)}
	staffRepo := &mockStaffRepo{byEmail: make(map[string]domain.Staff)}
	sender := &mockEmailSender{}

	tokens := service.NewTokenService("test-secret", time.Hour, time.Hour)
	staffSvc := service.NewStaffService(logger, staffRepo)
	caseSvc := service.NewCaseService(logger, caseRepo, taskRepo, service.NewPairingRateLimiter(time.Minute, 100), time.Hour)
	taskSvc := service.NewTaskService(logger, caseRepo, taskRepo, sender)

	router := NewRouter(
		logger,
		tokens,
		staffSvc,
		NewClassificationHandler(logger, service.ClassificationService{}),
		NewAuthHandler(logger, staffSvc, tokens),
		NewCaseHandler(logger, caseSvc, taskSvc),
		NewIndexHandler(logger, caseSvc, taskSvc, tokens),
	)
	return &testEnv{router: router, tokens: tokens, staff: staffSvc, cases: caseRepo, tasks: taskRepo, sender: sender}
}

func performRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](rec *httptest.ResponseRecorder) T {
	var out T
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}
