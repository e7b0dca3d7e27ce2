package service

import (
	"ggd-contact/internal/classification"
	"ggd-contact/internal/domain"
)

// ClassificationService expone el motor de clasificación a handlers y CLI.
type ClassificationService struct{}

func (ClassificationService) Evaluate(risks domain.Risks) classification.Evaluation {
	return classification.Evaluate(risks)
}

func (ClassificationService) RisksForCategory(category domain.Category) domain.Risks {
	return classification.SetRisks(category)
}
