package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ggd-contact/internal/classification"
	"ggd-contact/internal/domain"
	"ggd-contact/internal/email"
	"ggd-contact/internal/repository"
)

// TaskService mantiene los contactos de un caso y su clasificación de riesgo.
type TaskService struct {
	logger *zap.Logger
	cases  repository.CaseRepository
	tasks  repository.TaskRepository
	sender email.Sender
	now    func() time.Time
}

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTask        = errors.New("invalid task")
	ErrTaskNotClassified  = errors.New("task not classified")
	ErrContactUnreachable = errors.New("contact has no email address")
	ErrEmailSendFailure   = errors.New("email send failed")
)

func NewTaskService(
	logger *zap.Logger,
	cases repository.CaseRepository,
	tasks repository.TaskRepository,
	sender email.Sender,
) *TaskService {
	return &TaskService{
		logger: logger,
		cases:  cases,
		tasks:  tasks,
		sender: sender,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type UpsertTaskInput struct {
	Label              string
	Context            string
	Source             domain.TaskSource
	Communication      domain.Communication
	Contact            domain.Contact
	DateOfLastExposure *time.Time
	Risks              domain.Risks
}

// UpsertTask crea o actualiza la tarea y recalcula su clasificación.
func (s *TaskService) UpsertTask(ctx context.Context, caseID, taskID string, input UpsertTaskInput) (domain.Task, classification.Evaluation, error) {
	if err := s.ensureCase(ctx, caseID); err != nil {
		return domain.Task{}, classification.Evaluation{}, err
	}
	if err := validateTaskInput(&input); err != nil {
		return domain.Task{}, classification.Evaluation{}, err
	}
	if taskID == "" {
		taskID = uuid.NewString()
	} else if _, err := uuid.Parse(taskID); err != nil {
		return domain.Task{}, classification.Evaluation{}, ErrInvalidTask
	}

	now := s.now()
	task, err := s.tasks.GetByID(ctx, caseID, taskID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		task = domain.Task{
			ID:        taskID,
			CaseID:    caseID,
			Source:    input.Source,
			CreatedAt: now,
		}
	case err != nil:
		return domain.Task{}, classification.Evaluation{}, err
	}

	task.Label = input.Label
	task.Context = input.Context
	task.Communication = input.Communication
	task.Contact = input.Contact
	task.DateOfLastExposure = input.DateOfLastExposure
	task.Risks = input.Risks
	task.UpdatedAt = now

	ev := classification.Evaluate(task.Risks)
	task.ApplyResult(ev.Result)

	if err := s.tasks.Upsert(ctx, task); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, classification.Evaluation{}, ErrInvalidTask
		}
		return domain.Task{}, classification.Evaluation{}, err
	}
	return task, ev, nil
}

// ApplyCategory fija la categoría elegida por el personal y las respuestas canónicas que la justifican.
func (s *TaskService) ApplyCategory(ctx context.Context, caseID, taskID string, category domain.Category) (domain.Task, error) {
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return domain.Task{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}
	task, err := s.getTask(ctx, caseID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task.Risks = classification.SetRisks(category)
	c := category
	task.Category = &c
	task.PendingRisk = nil
	task.UpdatedAt = s.now()
	if err := s.tasks.Upsert(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// InformContact envía el aviso de exposición al contacto y registra el envío.
func (s *TaskService) InformContact(ctx context.Context, caseID, taskID string) (domain.Task, error) {
	task, err := s.getTask(ctx, caseID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if task.Category == nil {
		return domain.Task{}, ErrTaskNotClassified
	}
	if strings.TrimSpace(task.Contact.Email) == "" {
		return domain.Task{}, ErrContactUnreachable
	}
	if s.sender == nil {
		return domain.Task{}, ErrEmailSendFailure
	}

	notice := email.ExposureNotice{
		ToEmail:            task.Contact.Email,
		ContactName:        task.Contact.DisplayName(),
		Category:           *task.Category,
		DateOfLastExposure: task.DateOfLastExposure,
	}
	if err := s.sender.SendExposureNotice(ctx, notice); err != nil {
		if s.logger != nil {
			s.logger.Warn("send exposure notice failed", zap.Error(err), zap.String("task_id", task.ID))
		}
		return domain.Task{}, ErrEmailSendFailure
	}

	informedAt := s.now()
	if err := s.tasks.MarkInformed(ctx, caseID, taskID, informedAt); err != nil {
		return domain.Task{}, err
	}
	task.InformedAt = &informedAt
	task.UpdatedAt = informedAt
	return task, nil
}

func (s *TaskService) ensureCase(ctx context.Context, caseID string) error {
	if _, err := uuid.Parse(caseID); err != nil {
		return ErrCaseNotFound
	}
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCaseNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) getTask(ctx context.Context, caseID, taskID string) (domain.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return domain.Task{}, ErrTaskNotFound
	}
	if err := s.ensureCase(ctx, caseID); err != nil {
		return domain.Task{}, err
	}
	task, err := s.tasks.GetByID(ctx, caseID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return task, nil
}

func validateTaskInput(input *UpsertTaskInput) error {
	input.Label = strings.TrimSpace(input.Label)
	input.Context = strings.TrimSpace(input.Context)
	input.Contact.Email = normalizeEmail(input.Contact.Email)
	input.Contact.FirstName = strings.TrimSpace(input.Contact.FirstName)
	input.Contact.LastName = strings.TrimSpace(input.Contact.LastName)
	input.Contact.Phone = strings.TrimSpace(input.Contact.Phone)

	if input.Label == "" && input.Contact.DisplayName() == "" {
		return ErrInvalidTask
	}
	if input.Label == "" {
		input.Label = input.Contact.DisplayName()
	}

	switch input.Source {
	case "":
		input.Source = domain.TaskSourceApp
	case domain.TaskSourceApp, domain.TaskSourcePortal:
	default:
		return ErrInvalidTask
	}
	switch input.Communication {
	case "":
		input.Communication = domain.CommunicationNone
	case domain.CommunicationIndex, domain.CommunicationStaff, domain.CommunicationNone:
	default:
		return ErrInvalidTask
	}
	if input.Contact.Email != "" && !strings.Contains(input.Contact.Email, "@") {
		return ErrInvalidTask
	}
	return nil
}
