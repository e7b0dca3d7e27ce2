package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/repository"
)

// StaffService gestiona cuentas del portal y su autenticación.
type StaffService struct {
	logger *zap.Logger
	staff  repository.StaffRepository
}

func NewStaffService(logger *zap.Logger, staff repository.StaffRepository) *StaffService {
	return &StaffService{logger: logger, staff: staff}
}

var (
	ErrStaffNotFound      = errors.New("staff not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
)

const minPasswordLength = 10

func (s *StaffService) CreateStaff(ctx context.Context, email, displayName, password string) (domain.Staff, error) {
	if s.staff == nil {
		return domain.Staff{}, errors.New("staff service not configured")
	}

	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Staff{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return domain.Staff{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Staff{}, err
	}

	staff := domain.Staff{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return domain.Staff{}, err
	}
	return staff, nil
}

func (s *StaffService) Authenticate(ctx context.Context, email, password string) (domain.Staff, error) {
	if s.staff == nil {
		return domain.Staff{}, errors.New("staff service not configured")
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Staff{}, ErrInvalidCredentials
	}
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Staff{}, ErrInvalidCredentials
		}
		return domain.Staff{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.Info("staff login rejected", zap.String("staff_id", staff.ID))
		}
		return domain.Staff{}, ErrInvalidCredentials
	}
	return staff, nil
}

func (s *StaffService) GetStaff(ctx context.Context, id string) (domain.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, ErrStaffNotFound
	}
	return staff, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
