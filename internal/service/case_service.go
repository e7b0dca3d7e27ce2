package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/repository"
)

// CaseService coordina la apertura de casos y el emparejamiento con la app del caso índice.
type CaseService struct {
	logger  *zap.Logger
	cases   repository.CaseRepository
	tasks   repository.TaskRepository
	limiter PairingRateLimiter
	codeTTL time.Duration
	now     func() time.Time
}

var (
	ErrCaseNotFound       = errors.New("case not found")
	ErrInvalidCase        = errors.New("invalid case")
	ErrPairingCodeInvalid = errors.New("pairing code invalid or expired")
	ErrRateLimited        = errors.New("rate limited")
)

func NewCaseService(
	logger *zap.Logger,
	cases repository.CaseRepository,
	tasks repository.TaskRepository,
	limiter PairingRateLimiter,
	codeTTL time.Duration,
) *CaseService {
	if limiter == nil {
		limiter = NewPairingRateLimiter(10*time.Minute, 5)
	}
	if codeTTL <= 0 {
		codeTTL = time.Hour
	}
	return &CaseService{
		logger:  logger,
		cases:   cases,
		tasks:   tasks,
		limiter: limiter,
		codeTTL: codeTTL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type CreateCaseInput struct {
	Reference          string
	DateOfSymptomOnset *time.Time
}

// PairingCode es el código en claro; solo se devuelve al generarlo.
type PairingCode struct {
	Code      string    `json:"pairing_code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *CaseService) CreateCase(ctx context.Context, staffID string, input CreateCaseInput) (domain.Case, PairingCode, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" || strings.TrimSpace(staffID) == "" {
		return domain.Case{}, PairingCode{}, ErrInvalidCase
	}
	now := s.now()
	if input.DateOfSymptomOnset != nil && input.DateOfSymptomOnset.After(now) {
		return domain.Case{}, PairingCode{}, ErrInvalidCase
	}

	code, hash, err := generatePairingCode()
	if err != nil {
		return domain.Case{}, PairingCode{}, err
	}
	expiresAt := now.Add(s.codeTTL)

	c := domain.Case{
		ID:                   uuid.NewString(),
		Reference:            reference,
		DateOfSymptomOnset:   input.DateOfSymptomOnset,
		PairingCodeHash:      hash,
		PairingCodeExpiresAt: &expiresAt,
		CreatedBy:            staffID,
		CreatedAt:            now,
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return domain.Case{}, PairingCode{}, err
	}
	return c, PairingCode{Code: FormatPairingCode(code), ExpiresAt: expiresAt}, nil
}

// RegenerateCode emite un código nuevo e invalida el anterior.
func (s *CaseService) RegenerateCode(ctx context.Context, caseID string) (PairingCode, error) {
	if _, err := s.getCase(ctx, caseID); err != nil {
		return PairingCode{}, err
	}
	code, hash, err := generatePairingCode()
	if err != nil {
		return PairingCode{}, err
	}
	expiresAt := s.now().Add(s.codeTTL)
	if err := s.cases.UpdatePairingCode(ctx, caseID, hash, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PairingCode{}, ErrCaseNotFound
		}
		return PairingCode{}, err
	}
	return PairingCode{Code: FormatPairingCode(code), ExpiresAt: expiresAt}, nil
}

// GetCase devuelve el caso con sus tareas ordenadas por prioridad de categoría.
func (s *CaseService) GetCase(ctx context.Context, caseID string) (domain.Case, []domain.Task, error) {
	c, err := s.getCase(ctx, caseID)
	if err != nil {
		return domain.Case{}, nil, err
	}
	tasks, err := s.tasks.ListByCase(ctx, caseID)
	if err != nil {
		return domain.Case{}, nil, err
	}
	SortTasks(tasks)
	return c, tasks, nil
}

// CaseTokenIssuer emite la credencial que recibe la app al emparejar.
type CaseTokenIssuer func(domain.Case) (IssuedToken, error)

// Pair busca el caso con código vigente que coincide y lo marca como emparejado.
// clientKey identifica al solicitante para el rate limit.
func (s *CaseService) Pair(ctx context.Context, clientKey, code string) (domain.Case, error) {
	c, _, err := s.PairAndIssue(ctx, clientKey, code, nil)
	return c, err
}

// PairAndIssue empareja y emite el token antes de consumir el código: si issue
// falla, el código sigue vigente y la app puede reintentar.
// Cada código empareja una sola vez aunque lleguen pedidos concurrentes.
func (s *CaseService) PairAndIssue(ctx context.Context, clientKey, code string, issue CaseTokenIssuer) (domain.Case, IssuedToken, error) {
	if !s.limiter.Allow(clientKey) {
		return domain.Case{}, IssuedToken{}, ErrRateLimited
	}
	normalized, ok := normalizePairingCode(code)
	if !ok {
		return domain.Case{}, IssuedToken{}, ErrPairingCodeInvalid
	}

	now := s.now()
	candidates, err := s.cases.ListPairable(ctx, now)
	if err != nil {
		return domain.Case{}, IssuedToken{}, err
	}
	for _, c := range candidates {
		if !c.IsPairable(now) || !verifyPairingCode(normalized, c.PairingCodeHash) {
			continue
		}

		var token IssuedToken
		if issue != nil {
			if token, err = issue(c); err != nil {
				if s.logger != nil {
					s.logger.Error("issue case token failed, pairing code kept", zap.String("case_id", c.ID), zap.Error(err))
				}
				return domain.Case{}, IssuedToken{}, fmt.Errorf("issue case token: %w", err)
			}
		}

		if err := s.cases.MarkPaired(ctx, c.ID, c.PairingCodeHash, now); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				if s.logger != nil {
					s.logger.Warn("pairing code already used or replaced", zap.String("case_id", c.ID))
				}
				return domain.Case{}, IssuedToken{}, ErrPairingCodeInvalid
			}
			return domain.Case{}, IssuedToken{}, err
		}
		c.PairedAt = &now
		c.PairingCodeHash = ""
		c.PairingCodeExpiresAt = nil
		if s.logger != nil {
			s.logger.Info("case paired", zap.String("case_id", c.ID))
		}
		return c, token, nil
	}
	return domain.Case{}, IssuedToken{}, ErrPairingCodeInvalid
}

func (s *CaseService) getCase(ctx context.Context, caseID string) (domain.Case, error) {
	if _, err := uuid.Parse(caseID); err != nil {
		return domain.Case{}, ErrCaseNotFound
	}
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Case{}, ErrCaseNotFound
		}
		return domain.Case{}, err
	}
	return c, nil
}

// SortTasks ordena por categoría (sin clasificar al final) y luego por etiqueta.
func SortTasks(tasks []domain.Task) {
	rank := func(t domain.Task) int {
		if t.Category == nil {
			return len(domain.Categories) + 1
		}
		return t.Category.Rank()
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := rank(tasks[i]), rank(tasks[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(tasks[i].Label) < strings.ToLower(tasks[j].Label)
	})
}
