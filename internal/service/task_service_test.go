package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ggd-contact/internal/domain"
)

func newTestTaskService(sender *mockSender) (*TaskService, *mockTaskRepo, string) {
	cases := newMockCaseRepo()
	tasks := newMockTaskRepo()
	caseID := uuid.NewString()
	cases.cases[caseID] = domain.Case{ID: caseID, Reference: "ref"}
	var svc *TaskService
	if sender == nil {
		svc = NewTaskService(zap.NewNop(), cases, tasks, nil)
	} else {
		svc = NewTaskService(zap.NewNop(), cases, tasks, sender)
	}
	return svc, tasks, caseID
}

func TestTaskService_UpsertClassifiesProgressively(t *testing.T) {
	svc, repo, caseID := newTestTaskService(nil)
	ctx := context.Background()
	taskID := uuid.NewString()

	input := UpsertTaskInput{
		Contact: domain.Contact{FirstName: "Jan", LastName: "Jansen"},
		Risks:   domain.Risks{SameHousehold: domain.Bool(false)},
	}
	task, ev, err := svc.UpsertTask(ctx, caseID, taskID, input)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if task.Label != "Jan Jansen" || task.Source != domain.TaskSourceApp || task.Communication != domain.CommunicationNone {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if ev.Result != domain.NeedsAssessment(domain.RiskDistance) {
		t.Fatalf("expected distance pending, got %v", ev.Result)
	}
	if task.PendingRisk == nil || *task.PendingRisk != domain.RiskDistance || task.Category != nil {
		t.Fatalf("expected pending risk stored, got %+v", task)
	}
	if len(ev.VisibleRisks) != 2 {
		t.Fatalf("expected two visible risks, got %v", ev.VisibleRisks)
	}
	createdAt := task.CreatedAt

	input.Risks.Distance = domain.DistancePtr(domain.DistanceLessThan15Min)
	input.Risks.PhysicalContact = domain.Bool(true)
	task, ev, err = svc.UpsertTask(ctx, caseID, taskID, input)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if ev.Result != domain.Success(domain.Category2b) {
		t.Fatalf("expected category2b, got %v", ev.Result)
	}
	if task.Category == nil || *task.Category != domain.Category2b || task.PendingRisk != nil {
		t.Fatalf("expected category stored, got %+v", task)
	}
	if !task.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected created_at preserved")
	}
	if stored := repo.tasks[taskID]; stored.Category == nil || *stored.Category != domain.Category2b {
		t.Fatalf("expected repository to hold classified task, got %+v", stored)
	}
}

func TestTaskService_UpsertValidation(t *testing.T) {
	svc, _, caseID := newTestTaskService(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		caseID string
		taskID string
		input  UpsertTaskInput
		want   error
	}{
		{"unknown case", uuid.NewString(), "", UpsertTaskInput{Label: "a"}, ErrCaseNotFound},
		{"no label or name", caseID, "", UpsertTaskInput{}, ErrInvalidTask},
		{"bad task id", caseID, "abc", UpsertTaskInput{Label: "a"}, ErrInvalidTask},
		{"bad source", caseID, "", UpsertTaskInput{Label: "a", Source: "fax"}, ErrInvalidTask},
		{"bad communication", caseID, "", UpsertTaskInput{Label: "a", Communication: "pigeon"}, ErrInvalidTask},
		{"bad email", caseID, "", UpsertTaskInput{Label: "a", Contact: domain.Contact{Email: "nope"}}, ErrInvalidTask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.UpsertTask(ctx, tt.caseID, tt.taskID, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTaskService_UpsertRejectsTaskOfOtherCase(t *testing.T) {
	svc, repo, caseID := newTestTaskService(nil)
	taskID := uuid.NewString()
	repo.tasks[taskID] = domain.Task{ID: taskID, CaseID: uuid.NewString()}

	if _, _, err := svc.UpsertTask(context.Background(), caseID, taskID, UpsertTaskInput{Label: "a"}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
}

func TestTaskService_ApplyCategory(t *testing.T) {
	svc, _, caseID := newTestTaskService(nil)
	ctx := context.Background()

	task, _, err := svc.UpsertTask(ctx, caseID, "", UpsertTaskInput{Label: "colleague"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	updated, err := svc.ApplyCategory(ctx, caseID, task.ID, domain.Category3a)
	if err != nil {
		t.Fatalf("apply category: %v", err)
	}
	if updated.Category == nil || *updated.Category != domain.Category3a {
		t.Fatalf("expected category3a kept as chosen, got %+v", updated.Category)
	}
	if updated.Risks.Distance == nil || *updated.Risks.Distance != domain.DistanceNo {
		t.Fatalf("expected canonical risks, got %+v", updated.Risks)
	}
	if updated.PendingRisk != nil {
		t.Fatalf("expected no pending risk")
	}

	if _, err := svc.ApplyCategory(ctx, caseID, uuid.NewString(), domain.Category1); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_ApplyCategoryRejectsUnknownCategory(t *testing.T) {
	svc, repo, caseID := newTestTaskService(nil)
	ctx := context.Background()

	task, _, err := svc.UpsertTask(ctx, caseID, "", UpsertTaskInput{Label: "neighbour"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for _, category := range []domain.Category{"", "category4", "Category1"} {
		_, err := svc.ApplyCategory(ctx, caseID, task.ID, category)
		if !errors.Is(err, ErrInvalidTask) || !errors.Is(err, domain.ErrUnknownCategory) {
			t.Fatalf("category %q: expected ErrInvalidTask wrapping ErrUnknownCategory, got %v", category, err)
		}
	}
	if stored := repo.tasks[task.ID]; stored.Category != nil || stored.Risks.Distance != nil {
		t.Fatalf("expected stored task untouched, got %+v", stored)
	}
}

func TestTaskService_InformContact(t *testing.T) {
	sender := &mockSender{}
	svc, repo, caseID := newTestTaskService(sender)
	ctx := context.Background()
	last := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)

	unclassified, _, err := svc.UpsertTask(ctx, caseID, "", UpsertTaskInput{
		Contact: domain.Contact{FirstName: "Piet", Email: "piet@example.com"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.InformContact(ctx, caseID, unclassified.ID); !errors.Is(err, ErrTaskNotClassified) {
		t.Fatalf("expected ErrTaskNotClassified, got %v", err)
	}

	noEmail, _, err := svc.UpsertTask(ctx, caseID, "", UpsertTaskInput{
		Label: "neighbour",
		Risks: domain.Risks{SameHousehold: domain.Bool(true)},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.InformContact(ctx, caseID, noEmail.ID); !errors.Is(err, ErrContactUnreachable) {
		t.Fatalf("expected ErrContactUnreachable, got %v", err)
	}

	task, _, err := svc.UpsertTask(ctx, caseID, "", UpsertTaskInput{
		Contact:            domain.Contact{FirstName: "Kees", Email: " Kees@Example.com "},
		DateOfLastExposure: &last,
		Risks:              domain.Risks{SameHousehold: domain.Bool(true)},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	informed, err := svc.InformContact(ctx, caseID, task.ID)
	if err != nil {
		t.Fatalf("inform: %v", err)
	}
	if informed.InformedAt == nil || repo.tasks[task.ID].InformedAt == nil {
		t.Fatalf("expected informed_at to be set")
	}
	if sender.last.ToEmail != "kees@example.com" || sender.last.Category != domain.Category1 || sender.last.ContactName != "Kees" {
		t.Fatalf("unexpected notice: %+v", sender.last)
	}

	sender.err = errors.New("smtp down")
	if _, err := svc.InformContact(ctx, caseID, task.ID); !errors.Is(err, ErrEmailSendFailure) {
		t.Fatalf("expected ErrEmailSendFailure, got %v", err)
	}
}
